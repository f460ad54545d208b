package seaswap

// Side selects one of the two item sets of an order
type Side int

const (
	SideOffer Side = iota
	SideConsideration
)

func (s Side) String() string {
	switch s {
	case SideOffer:
		return "offer"
	case SideConsideration:
		return "consideration"
	}
	return "unknown"
}

// ItemSets holds the offer and consideration items of the order being built
// together with its currency mode. No item disallowed by the mode is ever
// held in either set.
//
// ItemSets is not safe for concurrent use.
type ItemSets struct {
	mode          CurrencyMode
	offer         []Item
	consideration []Item
}

// NewItemSets returns empty sets in the given mode
func NewItemSets(mode CurrencyMode) *ItemSets {
	return &ItemSets{mode: mode}
}

// Mode returns the current currency mode
func (s *ItemSets) Mode() CurrencyMode {
	return s.mode
}

// Add appends item to side, or replaces the item with the same key. It
// returns false and leaves the sets unchanged if side is unknown or the item
// is not allowed in the current mode.
func (s *ItemSets) Add(side Side, item Item) bool {
	items := s.side(side)
	if items == nil || !s.mode.Allows(item.Type) {
		return false
	}
	key := item.Key()
	for i := range *items {
		if (*items)[i].Key() == key {
			(*items)[i] = item
			return true
		}
	}
	*items = append(*items, item)
	return true
}

// Remove removes the item with the same key from side. Removing an absent
// item is a no-op that returns false.
func (s *ItemSets) Remove(side Side, item Item) bool {
	items := s.side(side)
	if items == nil {
		return false
	}
	key := item.Key()
	for i := range *items {
		if (*items)[i].Key() == key {
			*items = append((*items)[:i:i], (*items)[i+1:]...)
			return true
		}
	}
	return false
}

// SwitchCurrencyMode drops every item the new mode disallows from both sets,
// then sets the mode. The filter runs even when mode is unchanged. It returns
// the number of dropped items.
func (s *ItemSets) SwitchCurrencyMode(mode CurrencyMode) int {
	before := len(s.offer) + len(s.consideration)
	s.offer = FilterForMode(s.offer, mode)
	s.consideration = FilterForMode(s.consideration, mode)
	s.mode = mode
	return before - len(s.offer) - len(s.consideration)
}

// Offer returns a copy of the offer items in display order
func (s *ItemSets) Offer() []Item {
	return append([]Item(nil), s.offer...)
}

// Consideration returns a copy of the consideration items in display order
func (s *ItemSets) Consideration() []Item {
	return append([]Item(nil), s.consideration...)
}

// Ready reports whether both sets hold at least one item
func (s *ItemSets) Ready() bool {
	return len(s.offer) > 0 && len(s.consideration) > 0
}

func (s *ItemSets) side(side Side) *[]Item {
	switch side {
	case SideOffer:
		return &s.offer
	case SideConsideration:
		return &s.consideration
	}
	return nil
}

// FilterForMode returns the items allowed in mode, preserving order. The
// input slice is not modified.
func FilterForMode(items []Item, mode CurrencyMode) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if mode.Allows(item.Type) {
			out = append(out, item)
		}
	}
	return out
}

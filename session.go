package seaswap

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Session is one order building session: the picked items, the currency
// mode, the chosen duration and the connected account. It lets one
// submission run at a time and remembers whether the last one succeeded.
//
// Session is safe for concurrent use.
type Session struct {
	orchestrator *Orchestrator
	now          func() time.Time

	mu        sync.Mutex
	items     *ItemSets
	account   string
	duration  uint64
	inFlight  bool
	succeeded bool
}

// NewSession creates a session submitting through orchestrator
func NewSession(orchestrator *Orchestrator, account string, mode CurrencyMode) *Session {
	return &Session{
		orchestrator: orchestrator,
		now:          time.Now,
		items:        NewItemSets(mode),
		account:      strings.TrimSpace(account),
	}
}

// Add adds item to side. See ItemSets.Add.
func (s *Session) Add(side Side, item Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Add(side, item)
}

// Remove removes item from side. See ItemSets.Remove.
func (s *Session) Remove(side Side, item Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Remove(side, item)
}

// SwitchCurrencyMode changes the currency mode, dropping conflicting items
func (s *Session) SwitchCurrencyMode(mode CurrencyMode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.SwitchCurrencyMode(mode)
}

// Mode returns the currency mode
func (s *Session) Mode() CurrencyMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Mode()
}

// Offer returns the offer items
func (s *Session) Offer() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Offer()
}

// Consideration returns the consideration items
func (s *Session) Consideration() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Consideration()
}

// SetDuration sets the order duration in seconds; zero means no expiry
func (s *Session) SetDuration(seconds uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duration = seconds
}

// SetAccount sets the connected account; empty disconnects
func (s *Session) SetAccount(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = strings.TrimSpace(account)
}

// CanSubmit reports whether an account is connected, both sets hold items
// and no submission is running
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account != "" && s.items.Ready() && !s.inFlight
}

// Busy reports whether a submission is running
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Succeeded reports whether the last finished submission succeeded
func (s *Session) Succeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.succeeded
}

// Submit builds the order parameters from the current state and runs them
// through the orchestrator. It fails with ErrSubmissionInFlight while another
// submission runs.
func (s *Session) Submit(ctx context.Context) (res *SubmitResult, err error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	account := s.account
	offers := s.items.Offer()
	considerations := s.items.Consideration()
	if account != "" && (len(offers) == 0 || len(considerations) == 0) {
		s.mu.Unlock()
		return nil, &InvalidParamError{Message: "offer and consideration must each hold at least one item"}
	}
	params := BuildOrderParameters(offers, considerations, s.duration, s.now())
	s.inFlight = true
	s.succeeded = false
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.succeeded = err == nil && res != nil
		s.mu.Unlock()
	}()

	return s.orchestrator.Submit(ctx, params, offers, considerations, account)
}

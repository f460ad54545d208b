package chain

import (
	"context"
	"fmt"
)

// ActionType identifies what an action asks the wallet to do
type ActionType string

const (
	ActionTypeApproval ActionType = "approval"
	ActionTypeCreate   ActionType = "create"
	ActionTypeExchange ActionType = "exchange"
)

// Action is one pending step of a use case. Approval actions send and wait
// for an approval transaction; create and exchange actions produce the use
// case result.
type Action struct {
	Type        ActionType
	Description string
	execute     func(ctx context.Context) error
}

// NewAction creates an action executed by fn
func NewAction(actionType ActionType, description string, fn func(ctx context.Context) error) Action {
	return Action{
		Type:        actionType,
		Description: description,
		execute:     fn,
	}
}

// Execute runs the action
func (a Action) Execute(ctx context.Context) error {
	if a.execute == nil {
		return fmt.Errorf("action %q has nothing to execute", a.Type)
	}
	return a.execute(ctx)
}

// OrderUseCase is the ordered list of actions returned by CreateOrder and
// FulfillOrder. The last action yields the result.
type OrderUseCase[T any] struct {
	Actions []Action
	result  T
}

// NewOrderUseCase creates a use case running approvals first, then the final
// action of type finalType.
func NewOrderUseCase[T any](approvals []Action, finalType ActionType, description string, final func(ctx context.Context) (T, error)) *OrderUseCase[T] {
	u := &OrderUseCase[T]{}
	u.Actions = make([]Action, 0, len(approvals)+1)
	u.Actions = append(u.Actions, approvals...)
	u.Actions = append(u.Actions, NewAction(finalType, description, func(ctx context.Context) error {
		res, err := final(ctx)
		if err != nil {
			return err
		}
		u.result = res
		return nil
	}))
	return u
}

// ExecuteAllActions runs every action in order and stops at the first error
func (u *OrderUseCase[T]) ExecuteAllActions(ctx context.Context) (T, error) {
	var zero T
	for i, action := range u.Actions {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if err := action.Execute(ctx); err != nil {
			return zero, fmt.Errorf("action %d/%d (%s): %w", i+1, len(u.Actions), action.Type, err)
		}
	}
	return u.result, nil
}

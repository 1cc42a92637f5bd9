package orderstatus

import (
	"database/sql/driver"
	"errors"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusReceived   Status = "received"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

// nextStates holds the legal forward transitions. Completed and cancelled
// are terminal.
var nextStates = map[Status][]Status{
	StatusReceived:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	return len(nextStates[s]) == 0
}

// CanTransitionTo reports whether target is a legal next state from s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range nextStates[s] {
		if next == target {
			return true
		}
	}

	return false
}

func Parse(s string) (Status, error) {
	switch Status(s) {
	case StatusReceived, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

package order

import (
	"errors"
	"fmt"

	"karinderya/internal/models"
)

var (
	// ErrInvalidStatus is returned when a status value is not part of the
	// order lifecycle at all.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrInvalidTransition is returned when both statuses are valid but the
	// lifecycle does not allow moving between them.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// transitions is the order lifecycle: new -> accepted -> finished ->
// completed, with voided reachable from every non-terminal status.
// completed and voided are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusNew:       {models.StatusAccepted, models.StatusVoided},
	models.StatusAccepted:  {models.StatusFinished, models.StatusVoided},
	models.StatusFinished:  {models.StatusCompleted, models.StatusVoided},
	models.StatusCompleted: {},
	models.StatusVoided:    {},
}

// NormalizeStatus maps the legacy "pending" alias to "new" and rejects
// statuses outside the lifecycle.
func NormalizeStatus(status models.OrderStatus) (models.OrderStatus, error) {
	if status == models.StatusPending {
		return models.StatusNew, nil
	}
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return status, nil
}

// CanTransition reports whether the lifecycle allows moving from one valid
// status to another. Unknown statuses never transition.
func CanTransition(from, to models.OrderStatus) bool {
	from, err := NormalizeStatus(from)
	if err != nil {
		return false
	}
	to, err = NormalizeStatus(to)
	if err != nil {
		return false
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CheckTransition validates a requested status change, distinguishing an
// unknown status from a known but disallowed transition.
func CheckTransition(from, to models.OrderStatus) error {
	from, err := NormalizeStatus(from)
	if err != nil {
		return err
	}
	to, err = NormalizeStatus(to)
	if err != nil {
		return err
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(status models.OrderStatus) bool {
	status, err := NormalizeStatus(status)
	if err != nil {
		return false
	}
	return len(transitions[status]) == 0
}

package order

import (
	"errors"
	"testing"

	"karinderya/internal/models"
)

func TestTransitionGraph(t *testing.T) {
	statuses := []models.OrderStatus{
		models.StatusNew,
		models.StatusAccepted,
		models.StatusFinished,
		models.StatusCompleted,
		models.StatusVoided,
	}

	allowed := map[models.OrderStatus]map[models.OrderStatus]bool{
		models.StatusNew:      {models.StatusAccepted: true, models.StatusVoided: true},
		models.StatusAccepted: {models.StatusFinished: true, models.StatusVoided: true},
		models.StatusFinished: {models.StatusCompleted: true, models.StatusVoided: true},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestPendingIsAliasForNew(t *testing.T) {
	normalized, err := NormalizeStatus(models.StatusPending)
	if err != nil {
		t.Fatalf("NormalizeStatus(pending) returned error: %v", err)
	}
	if normalized != models.StatusNew {
		t.Errorf("NormalizeStatus(pending) = %s, want %s", normalized, models.StatusNew)
	}

	if !CanTransition(models.StatusPending, models.StatusAccepted) {
		t.Error("expected pending -> accepted to be allowed")
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	if _, err := NormalizeStatus("shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("NormalizeStatus(shipped) error = %v, want ErrInvalidStatus", err)
	}

	if CanTransition("shipped", models.StatusAccepted) {
		t.Error("unknown status must never transition")
	}

	if err := CheckTransition(models.StatusNew, "shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("CheckTransition(new, shipped) error = %v, want ErrInvalidStatus", err)
	}
}

func TestCheckTransitionDisallowed(t *testing.T) {
	err := CheckTransition(models.StatusNew, models.StatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("CheckTransition(new, completed) error = %v, want ErrInvalidTransition", err)
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusCompleted, models.StatusVoided} {
		if !IsTerminal(status) {
			t.Errorf("expected %s to be terminal", status)
		}
	}
	for _, status := range []models.OrderStatus{models.StatusNew, models.StatusAccepted, models.StatusFinished, models.StatusPending} {
		if IsTerminal(status) {
			t.Errorf("expected %s not to be terminal", status)
		}
	}
}

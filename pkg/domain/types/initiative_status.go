package types

import "fmt"

// InitiativeStatus represents the lifecycle state of an initiative
type InitiativeStatus string

const (
	InitiativeStatusNotStarted InitiativeStatus = "Not Started"
	InitiativeStatusInProgress InitiativeStatus = "In Progress"
	InitiativeStatusOnHold     InitiativeStatus = "On Hold"
	InitiativeStatusCompleted  InitiativeStatus = "Completed"
	InitiativeStatusCancelled  InitiativeStatus = "Cancelled"
)

// AllInitiativeStatuses returns all valid initiative statuses
func AllInitiativeStatuses() []InitiativeStatus {
	return []InitiativeStatus{
		InitiativeStatusNotStarted,
		InitiativeStatusInProgress,
		InitiativeStatusOnHold,
		InitiativeStatusCompleted,
		InitiativeStatusCancelled,
	}
}

// IsValid checks if the initiative status is valid
func (s InitiativeStatus) IsValid() bool {
	switch s {
	case InitiativeStatusNotStarted,
		InitiativeStatusInProgress,
		InitiativeStatusOnHold,
		InitiativeStatusCompleted,
		InitiativeStatusCancelled:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as InitiativeStatusNotStarted.
func (s InitiativeStatus) Normalize() InitiativeStatus {
	if s == "" {
		return InitiativeStatusNotStarted
	}
	return s
}

func (s InitiativeStatus) String() string {
	return string(s)
}

// ParseInitiativeStatus parses a string into an InitiativeStatus
func ParseInitiativeStatus(s string) (InitiativeStatus, error) {
	status := InitiativeStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid initiative status: %s", s)
	}
	return status, nil
}

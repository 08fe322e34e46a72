package types

import "fmt"

// TaskStatus represents the state of a task within an initiative
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "Not Started"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusBlocked    TaskStatus = "Blocked"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// AllTaskStatuses returns all valid task statuses
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusNotStarted,
		TaskStatusInProgress,
		TaskStatusBlocked,
		TaskStatusCompleted,
	}
}

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNotStarted,
		TaskStatusInProgress,
		TaskStatusBlocked,
		TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as TaskStatusNotStarted.
func (s TaskStatus) Normalize() TaskStatus {
	if s == "" {
		return TaskStatusNotStarted
	}
	return s
}

func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus parses a string into a TaskStatus
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return status, nil
}

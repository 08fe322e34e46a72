package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

// TaskID identifies a task inside its parent initiative
type TaskID string

func NewTaskID() TaskID {
	return TaskID(uuid.New().String())
}

func (id TaskID) String() string {
	return string(id)
}

// Task is a unit of work scoped to one initiative
type Task struct {
	ID           TaskID
	InitiativeID InitiativeID
	Title        string
	Description  string
	OwnerID      UserID
	Status       types.TaskStatus
	StartDate    time.Time
	DueDate      time.Time
	Progress     int // 0-100
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

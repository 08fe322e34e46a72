package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Initiative() InitiativeRepository
	Task() TaskRepository
	Attachment() AttachmentRepository
	Master() MasterRepository
	Rating() RatingRepository

	// RunBatch records the writes issued by fn and commits them as one
	// all-or-nothing unit. Nothing is written when fn returns an error.
	RunBatch(ctx context.Context, fn func(b Batch) error) error

	Close() error
}

// Batch collects document mutations for RunBatch
type Batch interface {
	PutUser(user *model.User)
	DeleteUser(id model.UserID)
	PutInitiative(initiative *model.Initiative)
	DeleteInitiative(id model.InitiativeID)
	PutMaster(kind model.MasterKind, item *model.MasterItem)
	DeleteMaster(kind model.MasterKind, id string)

	// AddMembership appends initiativeID to the user's membership list if absent
	AddMembership(userID model.UserID, initiativeID model.InitiativeID)
	// RemoveMembership removes initiativeID from the user's membership list
	RemoveMembership(userID model.UserID, initiativeID model.InitiativeID)
}

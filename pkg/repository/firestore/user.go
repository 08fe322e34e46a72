package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userRepository struct {
	f *Firestore
}

var _ interfaces.UserRepository = &userRepository{}

// userDoc is the Firestore persistence model of users/{uid}
type userDoc struct {
	ID            string    `firestore:"id"`
	Name          string    `firestore:"name"`
	Email         string    `firestore:"email"`
	Role          string    `firestore:"role"`
	Department    string    `firestore:"department"`
	Designation   string    `firestore:"designation"`
	Active        bool      `firestore:"active"`
	PhotoURL      string    `firestore:"photoUrl"`
	InitiativeIDs []string  `firestore:"initiativeIds"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

func toUserDoc(u *model.User) *userDoc {
	ids := make([]string, len(u.InitiativeIDs))
	for i, id := range u.InitiativeIDs {
		ids[i] = id.String()
	}
	return &userDoc{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role.String(),
		Department:    u.Department,
		Designation:   u.Designation,
		Active:        u.Active,
		PhotoURL:      u.PhotoURL,
		InitiativeIDs: ids,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func fromUserDoc(doc *userDoc) *model.User {
	ids := make([]model.InitiativeID, len(doc.InitiativeIDs))
	for i, id := range doc.InitiativeIDs {
		ids[i] = model.InitiativeID(id)
	}
	return &model.User{
		ID:            model.UserID(doc.ID),
		Name:          doc.Name,
		Email:         doc.Email,
		Role:          types.Role(doc.Role),
		Department:    doc.Department,
		Designation:   doc.Designation,
		Active:        doc.Active,
		PhotoURL:      doc.PhotoURL,
		InitiativeIDs: ids,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func decodeUser(snap *firestore.DocumentSnapshot) (*model.User, error) {
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", snap.Ref.ID))
	}
	if doc.ID == "" {
		doc.ID = snap.Ref.ID
	}
	return fromUserDoc(&doc), nil
}

func decodeUsers(snaps []*firestore.DocumentSnapshot) ([]*model.User, error) {
	users := make([]*model.User, 0, len(snaps))
	for _, snap := range snaps {
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	model.SortUsers(users)
	return users, nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	snap, err := r.f.users().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}
	return decodeUser(snap)
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.f.users().Documents(ctx)
	defer iter.Stop()

	var snaps []*firestore.DocumentSnapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}
		snaps = append(snaps, snap)
	}
	return decodeUsers(snaps)
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		return goerr.New("user id is required")
	}
	if _, err := r.f.users().Doc(user.ID.String()).Set(ctx, toUserDoc(user)); err != nil {
		return goerr.Wrap(err, "failed to put user", goerr.V("id", user.ID))
	}
	return nil
}

// userUpdates maps a patch onto field paths of userDoc
func userUpdates(patch *model.UserPatch) []firestore.Update {
	var updates []firestore.Update
	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Role != nil {
		updates = append(updates, firestore.Update{Path: "role", Value: patch.Role.String()})
	}
	if patch.Department != nil {
		updates = append(updates, firestore.Update{Path: "department", Value: *patch.Department})
	}
	if patch.Designation != nil {
		updates = append(updates, firestore.Update{Path: "designation", Value: *patch.Designation})
	}
	if patch.PhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "photoUrl", Value: *patch.PhotoURL})
	}
	if patch.Active != nil {
		updates = append(updates, firestore.Update{Path: "active", Value: *patch.Active})
	}
	if !patch.UpdatedAt.IsZero() {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: patch.UpdatedAt})
	}
	return updates
}

func (r *userRepository) Update(ctx context.Context, id model.UserID, patch *model.UserPatch) (*model.User, error) {
	updates := userUpdates(patch)
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	if _, err := r.f.users().Doc(id.String()).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to update user", goerr.V("id", id))
	}
	return r.Get(ctx, id)
}

func (r *userRepository) Watch(ctx context.Context, id model.UserID, fn func(*model.User)) error {
	return watchDocument(ctx, r.f.users().Doc(id.String()), func(snap *firestore.DocumentSnapshot) error {
		if snap == nil || !snap.Exists() {
			fn(nil)
			return nil
		}
		u, err := decodeUser(snap)
		if err != nil {
			return err
		}
		fn(u)
		return nil
	})
}

func (r *userRepository) WatchAll(ctx context.Context, fn func([]*model.User)) error {
	return watchQuery(ctx, r.f.users().Query, func(snaps []*firestore.DocumentSnapshot) error {
		users, err := decodeUsers(snaps)
		if err != nil {
			return err
		}
		fn(users)
		return nil
	})
}

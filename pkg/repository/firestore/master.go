package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type masterRepository struct {
	f *Firestore
}

var _ interfaces.MasterRepository = &masterRepository{}

type masterDoc struct {
	ID   string `firestore:"id"`
	Name string `firestore:"name"`
}

func toMasterDoc(item *model.MasterItem) *masterDoc {
	return &masterDoc{ID: item.ID, Name: item.Name}
}

func decodeMasterItems(snaps []*firestore.DocumentSnapshot) ([]*model.MasterItem, error) {
	result := make([]*model.MasterItem, 0, len(snaps))
	for _, snap := range snaps {
		var doc masterDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode master item", goerr.V("doc_id", snap.Ref.ID))
		}
		if doc.ID == "" {
			doc.ID = snap.Ref.ID
		}
		result = append(result, &model.MasterItem{ID: doc.ID, Name: doc.Name})
	}
	model.SortMasterItems(result)
	return result, nil
}

func (r *masterRepository) List(ctx context.Context, kind model.MasterKind) ([]*model.MasterItem, error) {
	if !kind.IsValid() {
		return nil, goerr.New("invalid master kind", goerr.V("kind", kind))
	}

	iter := r.f.masters(kind).Documents(ctx)
	defer iter.Stop()

	var snaps []*firestore.DocumentSnapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate master items", goerr.V("kind", kind))
		}
		snaps = append(snaps, snap)
	}
	return decodeMasterItems(snaps)
}

func (r *masterRepository) Get(ctx context.Context, kind model.MasterKind, id string) (*model.MasterItem, error) {
	snap, err := r.f.masters(kind).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "master item not found",
				goerr.V("kind", kind),
				goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get master item",
			goerr.V("kind", kind),
			goerr.V("id", id))
	}

	items, err := decodeMasterItems([]*firestore.DocumentSnapshot{snap})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (r *masterRepository) Put(ctx context.Context, kind model.MasterKind, item *model.MasterItem) error {
	if !kind.IsValid() {
		return goerr.New("invalid master kind", goerr.V("kind", kind))
	}
	if item.ID == "" {
		return goerr.New("master item id is required", goerr.V("kind", kind))
	}
	if _, err := r.f.masters(kind).Doc(item.ID).Set(ctx, toMasterDoc(item)); err != nil {
		return goerr.Wrap(err, "failed to put master item",
			goerr.V("kind", kind),
			goerr.V("id", item.ID))
	}
	return nil
}

func (r *masterRepository) Delete(ctx context.Context, kind model.MasterKind, id string) error {
	if _, err := r.Get(ctx, kind, id); err != nil {
		return err
	}
	if _, err := r.f.masters(kind).Doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete master item",
			goerr.V("kind", kind),
			goerr.V("id", id))
	}
	return nil
}

func (r *masterRepository) Watch(ctx context.Context, kind model.MasterKind, fn func([]*model.MasterItem)) error {
	if !kind.IsValid() {
		return goerr.New("invalid master kind", goerr.V("kind", kind))
	}
	return watchQuery(ctx, r.f.masters(kind).Query, func(snaps []*firestore.DocumentSnapshot) error {
		result, err := decodeMasterItems(snaps)
		if err != nil {
			return err
		}
		fn(result)
		return nil
	})
}

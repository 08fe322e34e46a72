package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type opKind int

const (
	opSet opKind = iota
	opDelete
	opAddMembership
	opRemoveMembership
)

type writeOp struct {
	kind         opKind
	ref          *firestore.DocumentRef
	data         any
	initiativeID model.InitiativeID
}

type batch struct {
	f   *Firestore
	ops []writeOp
	now time.Time
}

var _ interfaces.Batch = &batch{}

func (b *batch) PutUser(user *model.User) {
	b.ops = append(b.ops, writeOp{kind: opSet, ref: b.f.users().Doc(user.ID.String()), data: toUserDoc(user)})
}

func (b *batch) DeleteUser(id model.UserID) {
	b.ops = append(b.ops, writeOp{kind: opDelete, ref: b.f.users().Doc(id.String())})
}

func (b *batch) PutInitiative(initiative *model.Initiative) {
	b.ops = append(b.ops, writeOp{kind: opSet, ref: b.f.initiatives().Doc(initiative.ID.String()), data: toInitiativeDoc(initiative)})
}

func (b *batch) DeleteInitiative(id model.InitiativeID) {
	b.ops = append(b.ops, writeOp{kind: opDelete, ref: b.f.initiatives().Doc(id.String())})
}

func (b *batch) PutMaster(kind model.MasterKind, item *model.MasterItem) {
	b.ops = append(b.ops, writeOp{kind: opSet, ref: b.f.masters(kind).Doc(item.ID), data: toMasterDoc(item)})
}

func (b *batch) DeleteMaster(kind model.MasterKind, id string) {
	b.ops = append(b.ops, writeOp{kind: opDelete, ref: b.f.masters(kind).Doc(id)})
}

func (b *batch) AddMembership(userID model.UserID, initiativeID model.InitiativeID) {
	b.ops = append(b.ops, writeOp{kind: opAddMembership, ref: b.f.users().Doc(userID.String()), initiativeID: initiativeID})
}

func (b *batch) RemoveMembership(userID model.UserID, initiativeID model.InitiativeID) {
	b.ops = append(b.ops, writeOp{kind: opRemoveMembership, ref: b.f.users().Doc(userID.String()), initiativeID: initiativeID})
}

// RunBatch commits the recorded writes in transactions of at most
// maxBatchWrites operations. Each chunk is all-or-nothing; a failing chunk
// leaves earlier chunks committed.
func (f *Firestore) RunBatch(ctx context.Context, fn func(b interfaces.Batch) error) error {
	b := &batch{f: f, now: time.Now().UTC()}
	if err := fn(b); err != nil {
		return err
	}

	for start := 0; start < len(b.ops); start += maxBatchWrites {
		end := min(start+maxBatchWrites, len(b.ops))
		if err := f.commit(ctx, b.ops[start:end], b.now); err != nil {
			return goerr.Wrap(err, "failed to commit batch",
				goerr.V("offset", start),
				goerr.V("size", end-start),
				goerr.V("total", len(b.ops)))
		}
	}

	return nil
}

func (f *Firestore) commit(ctx context.Context, ops []writeOp, now time.Time) error {
	var memberRefs []*firestore.DocumentRef
	seen := map[string]struct{}{}
	for _, op := range ops {
		if op.kind != opAddMembership && op.kind != opRemoveMembership {
			continue
		}
		if _, ok := seen[op.ref.Path]; ok {
			continue
		}
		seen[op.ref.Path] = struct{}{}
		memberRefs = append(memberRefs, op.ref)
	}

	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Membership updates only apply to profiles that exist, either
		// already stored or written earlier in the same batch.
		alive := map[string]bool{}
		if len(memberRefs) > 0 {
			docs, err := tx.GetAll(memberRefs)
			if err != nil {
				return goerr.Wrap(err, "failed to read membership targets", goerr.V("count", len(memberRefs)))
			}
			for _, doc := range docs {
				alive[doc.Ref.Path] = doc.Exists()
			}
		}

		for _, op := range ops {
			switch op.kind {
			case opSet:
				if err := tx.Set(op.ref, op.data); err != nil {
					return goerr.Wrap(err, "failed to set document", goerr.V("path", op.ref.Path))
				}
				alive[op.ref.Path] = true

			case opDelete:
				if err := tx.Delete(op.ref); err != nil {
					return goerr.Wrap(err, "failed to delete document", goerr.V("path", op.ref.Path))
				}
				alive[op.ref.Path] = false

			case opAddMembership, opRemoveMembership:
				if !alive[op.ref.Path] {
					continue
				}
				var value any = firestore.ArrayUnion(op.initiativeID.String())
				if op.kind == opRemoveMembership {
					value = firestore.ArrayRemove(op.initiativeID.String())
				}
				if err := tx.Update(op.ref, []firestore.Update{
					{Path: "initiativeIds", Value: value},
					{Path: "updatedAt", Value: now},
				}); err != nil {
					return goerr.Wrap(err, "failed to update membership",
						goerr.V("path", op.ref.Path),
						goerr.V("initiative_id", op.initiativeID))
				}
			}
		}
		return nil
	})
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/utils/errutil"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
)

type InitiativeUseCase struct {
	*guard
}

func NewInitiativeUseCase(g *guard) *InitiativeUseCase {
	return &InitiativeUseCase{guard: g}
}

func initiativeFromInput(input model.InitiativeInput) *model.Initiative {
	ini := &model.Initiative{
		Name:          input.Name,
		Category:      input.Category,
		Description:   input.Description,
		Objectives:    input.Objectives,
		LeadIDs:       uniqueUserIDs(input.LeadIDs),
		TeamMemberIDs: uniqueUserIDs(input.TeamMemberIDs),
		Status:        input.Status,
		Priority:      input.Priority,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Tags:          append([]string{}, input.Tags...),
		RAGStatus:     input.RAGStatus,
		Progress:      input.Progress,
	}
	ini.ApplyDefaults()
	return ini
}

func uniqueUserIDs(ids []model.UserID) []model.UserID {
	seen := make(map[model.UserID]struct{}, len(ids))
	result := make([]model.UserID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// checkMembers rejects references to users without a profile
func (uc *InitiativeUseCase) checkMembers(ctx context.Context, ini *model.Initiative) error {
	fields := model.FieldErrors{}
	for _, group := range []struct {
		field string
		ids   []model.UserID
	}{
		{"leadIds", ini.LeadIDs},
		{"teamMemberIds", ini.TeamMemberIDs},
	} {
		field := group.field
		for _, id := range group.ids {
			if _, err := uc.repo.User().Get(ctx, id); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					fields[field] = fmt.Sprintf("unknown user %q", id)
					break
				}
				return goerr.Wrap(err, "failed to check member", goerr.V(UserIDKey, id))
			}
		}
	}
	if len(fields) > 0 {
		return &model.ValidationError{Fields: fields}
	}
	return nil
}

// Create stores a new initiative and adds it to every member's list
func (uc *InitiativeUseCase) Create(ctx context.Context, uid model.UserID, input model.InitiativeInput) (*model.Initiative, error) {
	if err := model.Validate(input); err != nil {
		return nil, err
	}

	actor, err := uc.actor(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !actor.Active || !actor.Role.CanLead() {
		return nil, uc.deny(ctx, "CreateInitiative", "initiatives", uid, "admin or initiative lead role is required", nil)
	}

	ini := initiativeFromInput(input)
	if err := uc.checkMembers(ctx, ini); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ini.ID = model.NewInitiativeID()
	ini.CreatedAt = now
	ini.UpdatedAt = now

	if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
		b.PutInitiative(ini)
		for _, id := range ini.Members() {
			b.AddMembership(id, ini.ID)
		}
		return nil
	}); err != nil {
		if backendDenied(err) {
			return nil, uc.deny(ctx, "CreateInitiative", "initiatives/"+ini.ID.String(), uid, "backend rejected initiative write", err)
		}
		return nil, goerr.Wrap(err, "failed to create initiative", goerr.V(InitiativeIDKey, ini.ID))
	}

	logging.From(ctx).Info("initiative created", "initiative_id", ini.ID, "actor", uid)
	return ini, nil
}

// Update replaces the editable fields and moves memberships of added and
// removed members in the same batch
func (uc *InitiativeUseCase) Update(ctx context.Context, uid model.UserID, id model.InitiativeID, input model.InitiativeInput) (*model.Initiative, error) {
	if err := model.Validate(input); err != nil {
		return nil, err
	}

	actor, err := uc.actor(ctx, uid)
	if err != nil {
		return nil, err
	}
	existing, err := uc.initiative(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Active || (!actor.IsAdmin() && !existing.IsLead(uid)) {
		return nil, uc.deny(ctx, "UpdateInitiative", "initiatives/"+id.String(), uid, "admin role or initiative lead is required", nil)
	}

	updated := initiativeFromInput(input)
	if err := uc.checkMembers(ctx, updated); err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	added, removed := model.MembershipDiff(existing, updated)
	if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
		b.PutInitiative(updated)
		for _, member := range added {
			b.AddMembership(member, id)
		}
		for _, member := range removed {
			b.RemoveMembership(member, id)
		}
		return nil
	}); err != nil {
		if backendDenied(err) {
			return nil, uc.deny(ctx, "UpdateInitiative", "initiatives/"+id.String(), uid, "backend rejected initiative write", err)
		}
		return nil, goerr.Wrap(err, "failed to update initiative", goerr.V(InitiativeIDKey, id))
	}

	return updated, nil
}

// Delete removes the initiative document and its memberships. Tasks and
// attachments under it are not deleted.
func (uc *InitiativeUseCase) Delete(ctx context.Context, uid model.UserID, id model.InitiativeID) error {
	if _, err := uc.requireAdmin(ctx, "DeleteInitiative", "initiatives/"+id.String(), uid); err != nil {
		return err
	}
	existing, err := uc.initiative(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
		b.DeleteInitiative(id)
		for _, member := range existing.Members() {
			b.RemoveMembership(member, id)
		}
		return nil
	}); err != nil {
		return goerr.Wrap(err, "failed to delete initiative", goerr.V(InitiativeIDKey, id))
	}

	logging.From(ctx).Info("initiative deleted", "initiative_id", id, "actor", uid)
	return nil
}

// GetInitiative returns one initiative the caller may read
func (uc *InitiativeUseCase) GetInitiative(ctx context.Context, uid model.UserID, id model.InitiativeID) (*model.Initiative, error) {
	_, ini, err := uc.readableInitiative(ctx, uid, id)
	return ini, err
}

// ListInitiatives runs the scoped initiative query once
func (uc *InitiativeUseCase) ListInitiatives(ctx context.Context, uid model.UserID) ([]*model.Initiative, error) {
	actor, err := uc.actor(ctx, uid)
	if err != nil {
		return nil, err
	}

	q := model.BuildInitiativeQuery(actor)
	warnTruncated(ctx, uid, q)

	switch q.Scope {
	case model.QueryAll:
		list, err := uc.repo.Initiative().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list initiatives")
		}
		return list, nil

	case model.QueryByIDs:
		list, err := uc.repo.Initiative().GetByIDs(ctx, q.IDs)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list initiatives", goerr.V("count", len(q.IDs)))
		}
		model.SortInitiatives(list)
		return list, nil

	default:
		return []*model.Initiative{}, nil
	}
}

func warnTruncated(ctx context.Context, uid model.UserID, q model.InitiativeQuery) {
	if !q.Truncated {
		return
	}
	logging.From(ctx).Warn("membership list exceeds query limit, only the first entries are read",
		"user_id", uid,
		"total", q.Total,
		"limit", model.MaxQueryFanOut)
}

func sameQuery(a, b model.InitiativeQuery) bool {
	if a.Scope != b.Scope || len(a.IDs) != len(b.IDs) {
		return false
	}
	for i := range a.IDs {
		if a.IDs[i] != b.IDs[i] {
			return false
		}
	}
	return true
}

// WatchInitiatives keeps the scoped initiative list live. The query is
// rebuilt whenever the caller's profile changes; the result stays Loading
// while the profile does not exist.
func (uc *InitiativeUseCase) WatchInitiatives(ctx context.Context, uid model.UserID, fn func(Live[[]*model.Initiative])) *Subscription {
	var mu sync.Mutex
	deliver := func(v Live[[]*model.Initiative]) {
		mu.Lock()
		defer mu.Unlock()
		fn(v)
	}

	return newSubscription(ctx, func(ctx context.Context) {
		deliver(Live[[]*model.Initiative]{Loading: true})

		var (
			current   *model.InitiativeQuery
			stopInner = func() {}
		)
		defer func() { stopInner() }()

		err := uc.repo.User().Watch(ctx, uid, func(profile *model.User) {
			q := model.BuildInitiativeQuery(profile)
			if current != nil && sameQuery(*current, q) {
				return
			}
			stopInner()
			stopInner = func() {}
			current = &q

			if q.Scope == model.QueryPending {
				deliver(Live[[]*model.Initiative]{Loading: true})
				return
			}
			warnTruncated(ctx, uid, q)

			innerCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})
			stopInner = func() {
				cancel()
				<-done
			}

			go func() {
				defer close(done)
				err := uc.repo.Initiative().Watch(innerCtx, q, func(list []*model.Initiative) {
					if innerCtx.Err() != nil {
						return
					}
					deliver(Live[[]*model.Initiative]{Data: list})
				})
				if err != nil && innerCtx.Err() == nil {
					deliver(Live[[]*model.Initiative]{Err: errutil.Handle(ctx,
						goerr.Wrap(err, "live initiative query failed", goerr.V(UserIDKey, uid)),
						"live initiative query failed")})
				}
			}()
		})
		if err != nil && ctx.Err() == nil {
			deliver(Live[[]*model.Initiative]{Err: errutil.Handle(ctx,
				goerr.Wrap(err, "live profile query failed", goerr.V(UserIDKey, uid)),
				"live profile query failed")})
		}
	})
}

// WatchInitiative keeps one initiative live after checking read access
func (uc *InitiativeUseCase) WatchInitiative(ctx context.Context, uid model.UserID, id model.InitiativeID, fn func(Live[*model.Initiative])) *Subscription {
	return watchLive(ctx, "WatchInitiative", fn, func(ctx context.Context, emit func(*model.Initiative)) error {
		if _, _, err := uc.readableInitiative(ctx, uid, id); err != nil {
			return err
		}
		return uc.repo.Initiative().WatchOne(ctx, id, emit)
	})
}

package memory

import (
	"time"

	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type batch struct {
	ops []func(st *store)
}

var _ interfaces.Batch = &batch{}

func (b *batch) PutUser(user *model.User) {
	u := copyUser(user)
	b.ops = append(b.ops, func(st *store) {
		st.users[u.ID] = copyUser(u)
	})
}

func (b *batch) DeleteUser(id model.UserID) {
	b.ops = append(b.ops, func(st *store) {
		delete(st.users, id)
	})
}

func (b *batch) PutInitiative(initiative *model.Initiative) {
	ini := copyInitiative(initiative)
	b.ops = append(b.ops, func(st *store) {
		st.initiatives[ini.ID] = copyInitiative(ini)
	})
}

// DeleteInitiative removes the initiative document only. Sub-collections
// are left in place, as with the document store.
func (b *batch) DeleteInitiative(id model.InitiativeID) {
	b.ops = append(b.ops, func(st *store) {
		delete(st.initiatives, id)
	})
}

func (b *batch) PutMaster(kind model.MasterKind, item *model.MasterItem) {
	v := *item
	b.ops = append(b.ops, func(st *store) {
		if st.masters[kind] == nil {
			st.masters[kind] = make(map[string]*model.MasterItem)
		}
		copied := v
		st.masters[kind][v.ID] = &copied
	})
}

func (b *batch) DeleteMaster(kind model.MasterKind, id string) {
	b.ops = append(b.ops, func(st *store) {
		delete(st.masters[kind], id)
	})
}

func (b *batch) AddMembership(userID model.UserID, initiativeID model.InitiativeID) {
	b.ops = append(b.ops, func(st *store) {
		u, ok := st.users[userID]
		if !ok || u.IsMemberOf(initiativeID) {
			return
		}
		u.InitiativeIDs = append(u.InitiativeIDs, initiativeID)
		u.UpdatedAt = time.Now().UTC()
	})
}

func (b *batch) RemoveMembership(userID model.UserID, initiativeID model.InitiativeID) {
	b.ops = append(b.ops, func(st *store) {
		u, ok := st.users[userID]
		if !ok {
			return
		}
		kept := u.InitiativeIDs[:0]
		for _, id := range u.InitiativeIDs {
			if id != initiativeID {
				kept = append(kept, id)
			}
		}
		u.InitiativeIDs = kept
		u.UpdatedAt = time.Now().UTC()
	})
}

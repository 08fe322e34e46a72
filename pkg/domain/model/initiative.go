package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

// InitiativeID identifies an initiative document
type InitiativeID string

// NewInitiativeID generates a new UUID v4 InitiativeID
func NewInitiativeID() InitiativeID {
	return InitiativeID(uuid.New().String())
}

func (id InitiativeID) String() string {
	return string(id)
}

// Initiative is a tracked strategic work stream
type Initiative struct {
	ID            InitiativeID
	Name          string
	Category      string
	Description   string
	Objectives    string
	LeadIDs       []UserID
	TeamMemberIDs []UserID
	Status        types.InitiativeStatus
	Priority      types.Priority
	StartDate     time.Time
	EndDate       time.Time
	Tags          []string
	RAGStatus     types.RAGStatus
	Progress      int // 0-100
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Members returns lead and team member ids without duplicates, leads first
func (i *Initiative) Members() []UserID {
	seen := make(map[UserID]struct{}, len(i.LeadIDs)+len(i.TeamMemberIDs))
	result := make([]UserID, 0, len(i.LeadIDs)+len(i.TeamMemberIDs))
	for _, ids := range [][]UserID{i.LeadIDs, i.TeamMemberIDs} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}
	return result
}

// HasMember reports whether id is a lead or team member
func (i *Initiative) HasMember(id UserID) bool {
	return i.IsLead(id) || containsUserID(i.TeamMemberIDs, id)
}

// IsLead reports whether id is one of the initiative's leads
func (i *Initiative) IsLead(id UserID) bool {
	return containsUserID(i.LeadIDs, id)
}

// ApplyDefaults fills the fields a freshly created initiative starts with
func (i *Initiative) ApplyDefaults() {
	i.Status = i.Status.Normalize()
	i.Priority = i.Priority.Normalize()
	i.RAGStatus = i.RAGStatus.Normalize()
	if i.LeadIDs == nil {
		i.LeadIDs = []UserID{}
	}
	if i.TeamMemberIDs == nil {
		i.TeamMemberIDs = []UserID{}
	}
	if i.Tags == nil {
		i.Tags = []string{}
	}
}

func containsUserID(ids []UserID, id UserID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// MembershipDiff returns the members added and removed between before and
// after. before may be nil for a newly created initiative.
func MembershipDiff(before, after *Initiative) (added, removed []UserID) {
	prev := map[UserID]struct{}{}
	if before != nil {
		for _, id := range before.Members() {
			prev[id] = struct{}{}
		}
	}
	next := map[UserID]struct{}{}
	if after != nil {
		for _, id := range after.Members() {
			next[id] = struct{}{}
			if _, ok := prev[id]; !ok {
				added = append(added, id)
			}
		}
	}
	if before != nil {
		for _, id := range before.Members() {
			if _, ok := next[id]; !ok {
				removed = append(removed, id)
			}
		}
	}
	return added, removed
}

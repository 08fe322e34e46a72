package model

// MaxQueryFanOut is the largest number of document ids the backend accepts
// in a single "in" query.
const MaxQueryFanOut = 30

// QueryScope tells the read path how an initiative list query is scoped
type QueryScope int

const (
	// QueryPending means the caller's profile is not resolved yet. No query
	// is issued and the result stays loading.
	QueryPending QueryScope = iota
	// QueryAll reads every initiative (Admin).
	QueryAll
	// QueryNone is issued for an empty membership list and yields zero rows.
	QueryNone
	// QueryByIDs reads the listed initiative ids only.
	QueryByIDs
)

func (s QueryScope) String() string {
	switch s {
	case QueryPending:
		return "pending"
	case QueryAll:
		return "all"
	case QueryNone:
		return "none"
	case QueryByIDs:
		return "by_ids"
	default:
		return "unknown"
	}
}

// InitiativeQuery is the resolved scope of an initiative list read
type InitiativeQuery struct {
	Scope QueryScope
	IDs   []InitiativeID

	// Truncated is set when the membership list exceeded MaxQueryFanOut and
	// only the first MaxQueryFanOut ids were kept.
	Truncated bool
	// Total is the membership list length before truncation.
	Total int
}

// BuildInitiativeQuery maps a profile to the initiative list query it is
// authorized to run. A nil profile yields QueryPending.
func BuildInitiativeQuery(profile *User) InitiativeQuery {
	if profile == nil {
		return InitiativeQuery{Scope: QueryPending}
	}
	if profile.IsAdmin() {
		return InitiativeQuery{Scope: QueryAll}
	}

	ids := uniqueInitiativeIDs(profile.InitiativeIDs)
	if len(ids) == 0 {
		return InitiativeQuery{Scope: QueryNone, IDs: []InitiativeID{}}
	}

	q := InitiativeQuery{Scope: QueryByIDs, Total: len(ids)}
	if len(ids) > MaxQueryFanOut {
		ids = ids[:MaxQueryFanOut]
		q.Truncated = true
	}
	q.IDs = ids
	return q
}

func uniqueInitiativeIDs(ids []InitiativeID) []InitiativeID {
	seen := make(map[InitiativeID]struct{}, len(ids))
	result := make([]InitiativeID, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

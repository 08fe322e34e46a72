package model

import "time"

// InitiativeRating scores an initiative on delivery dimensions
type InitiativeRating struct {
	ID            string
	InitiativeID  InitiativeID
	RatedBy       UserID
	Impact        int
	Timeliness    int
	Execution     int
	Collaboration int
	Comments      string
	CreatedAt     time.Time
}

// UserRating scores a member's contribution to an initiative
type UserRating struct {
	ID            string
	InitiativeID  InitiativeID
	UserID        UserID
	RatedBy       UserID
	Ownership     int
	Quality       int
	Collaboration int
	Comments      string
	CreatedAt     time.Time
}

// DailyCheckin is a member's daily status note on an initiative
type DailyCheckin struct {
	ID           string
	InitiativeID InitiativeID
	UserID       UserID
	Summary      string
	Blockers     string
	CreatedAt    time.Time
}

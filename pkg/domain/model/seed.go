package model

import (
	"time"

	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

// SeedDataset is the static baseline provisioned by the seeding utility
type SeedDataset struct {
	// Password is assigned to every newly created account
	Password     string `masq:"secret"`
	Defaults     SeedDefaults
	Departments  []string
	Designations []string
	Users        []SeedUser
	Initiatives  []SeedInitiative
}

// SeedDefaults fill profile fields a roster entry leaves empty
type SeedDefaults struct {
	Department  string
	Designation string
	PhotoURL    string
}

// SeedUser is one roster entry
type SeedUser struct {
	Name        string
	Email       string
	Role        types.Role
	Department  string
	Designation string
}

// SeedInitiative references people by email; ids are resolved at seed time
type SeedInitiative struct {
	Name             string
	Category         string
	Description      string
	Objectives       string
	LeadEmails       []string
	TeamMemberEmails []string
	Status           types.InitiativeStatus
	Priority         types.Priority
	StartDate        time.Time
	EndDate          time.Time
	Tags             []string
	RAGStatus        types.RAGStatus
	Progress         int
}

// SeedProgress is reported after each seeding step
type SeedProgress struct {
	Message    string
	Percentage int
}

// SeedReport summarizes a completed seed run
type SeedReport struct {
	Accounts            []ProvisionResult
	DepartmentsWritten  int
	DesignationsWritten int
	ProfilesCreated     int
	ProfilesExisting    int
	InitiativesCreated  int
	// UnresolvedEmails lists initiative lead/member emails that matched no profile
	UnresolvedEmails []string
}

// ClearReport summarizes a ClearData run
type ClearReport struct {
	InitiativesDeleted  int
	DepartmentsDeleted  int
	DesignationsDeleted int
	UsersDeleted        int
	AdminsKept          int
}

package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// MasterKind selects one of the flat lookup tables
type MasterKind string

const (
	MasterDepartment  MasterKind = "departments"
	MasterDesignation MasterKind = "designations"
)

// AllMasterKinds returns every lookup table
func AllMasterKinds() []MasterKind {
	return []MasterKind{MasterDepartment, MasterDesignation}
}

func (k MasterKind) IsValid() bool {
	return k == MasterDepartment || k == MasterDesignation
}

func (k MasterKind) String() string {
	return string(k)
}

// ParseMasterKind parses a collection name into a MasterKind
func ParseMasterKind(s string) (MasterKind, error) {
	k := MasterKind(s)
	if !k.IsValid() {
		return "", goerr.New("invalid master kind", goerr.V("kind", s))
	}
	return k, nil
}

// MasterItem is a row of the department or designation table
type MasterItem struct {
	ID   string
	Name string
}

// NewMasterID generates an id for a lookup row
func NewMasterID() string {
	return uuid.New().String()
}

// MasterIDFromName derives a stable id from kind and name, so re-seeding the
// same row overwrites it instead of adding a duplicate
func MasterIDFromName(kind MasterKind, name string) string {
	key := string(kind) + "/" + strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

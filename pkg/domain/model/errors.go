package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is wrapped by every repository when a document does not exist
var ErrNotFound = goerr.New("resource not found")

// ErrorKind classifies events published on the error bus
type ErrorKind string

const (
	ErrorKindPermissionDenied ErrorKind = "permission_denied"
)

// ErrorEvent is a cross-cutting failure notification, decoupled from the
// call site that produced it
type ErrorEvent struct {
	Kind       ErrorKind
	Operation  string
	Path       string
	Actor      UserID
	Err        error
	OccurredAt time.Time
}

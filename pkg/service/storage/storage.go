package storage

import "github.com/secmon-lab/initiativeflow/pkg/domain/model"

// ErrNotFound is returned when no blob exists at the requested path
var ErrNotFound = model.ErrNotFound

package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration
var (
	ErrMissingFlag      = goerr.New("required flag is missing")
	ErrInvalidBackend   = goerr.New("invalid backend")
	ErrDatasetNotFound  = goerr.New("dataset file not found")
	ErrInvalidDataset   = goerr.New("invalid dataset")
	ErrDuplicateEmail   = goerr.New("duplicate user email")
	ErrUnknownReference = goerr.New("unknown reference")
)

// Context keys for error values
const (
	BackendKey     = "backend"
	DatasetPathKey = "dataset_path"
	EmailKey       = "email"
	UserIndexKey   = "user_index"
	InitiativeKey  = "initiative"
	FieldKey       = "field"
)

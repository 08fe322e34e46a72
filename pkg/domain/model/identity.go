package model

// ProvisionStatus is the outcome of an idempotent account creation
type ProvisionStatus int

const (
	ProvisionCreated ProvisionStatus = iota + 1
	ProvisionAlreadyExists
	ProvisionFailed
)

func (s ProvisionStatus) String() string {
	switch s {
	case ProvisionCreated:
		return "created"
	case ProvisionAlreadyExists:
		return "already_exists"
	case ProvisionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Account is an authentication account to provision
type Account struct {
	Email       string
	Password    string `masq:"secret"`
	DisplayName string
}

// ProvisionResult is the tagged result of IdentityProvider.CreateOrGet.
// UID may be empty for ProvisionAlreadyExists when the provider cannot
// look the existing account up.
type ProvisionResult struct {
	Status ProvisionStatus
	UID    UserID
	Email  string
	Reason error
}

// Provisioned reports whether the account exists after the call
func (r ProvisionResult) Provisioned() bool {
	return r.Status == ProvisionCreated || r.Status == ProvisionAlreadyExists
}

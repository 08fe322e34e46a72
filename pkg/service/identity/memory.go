package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	authmodel "github.com/secmon-lab/initiativeflow/pkg/domain/model/auth"
)

type memoryAccount struct {
	uid  model.UserID
	name string
}

// Memory is an in-process identity provider for local runs and tests. Its
// bearer credential is the account UID.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount // by lowercase email
	failures map[string]error
	hideUID  bool
}

var (
	_ interfaces.IdentityProvider = &Memory{}
	_ interfaces.Authenticator    = &Memory{}
)

type MemoryOption func(*Memory)

// WithoutExistingUID makes CreateOrGet omit the UID of pre-existing
// accounts, as a provider without lookup capability would
func WithoutExistingUID() MemoryOption {
	return func(m *Memory) {
		m.hideUID = true
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		accounts: make(map[string]*memoryAccount),
		failures: make(map[string]error),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds an existing account and returns its UID
func (m *Memory) Register(email, name string) model.UserID {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = model.NormalizeEmail(email)
	if acc, ok := m.accounts[email]; ok {
		return acc.uid
	}
	uid := model.UserID(uuid.New().String())
	m.accounts[email] = &memoryAccount{uid: uid, name: name}
	return uid
}

// FailOn makes CreateOrGet fail for email with err
func (m *Memory) FailOn(email string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[model.NormalizeEmail(email)] = err
}

// Lookup returns the UID registered for email
func (m *Memory) Lookup(email string) (model.UserID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[model.NormalizeEmail(email)]
	if !ok {
		return "", false
	}
	return acc.uid, true
}

func (m *Memory) CreateOrGet(ctx context.Context, account model.Account) model.ProvisionResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := model.NormalizeEmail(account.Email)
	if err, ok := m.failures[email]; ok {
		return model.ProvisionResult{
			Status: model.ProvisionFailed,
			Email:  email,
			Reason: goerr.Wrap(err, "failed to create account", goerr.V("email", email)),
		}
	}

	if acc, ok := m.accounts[email]; ok {
		result := model.ProvisionResult{Status: model.ProvisionAlreadyExists, Email: email}
		if !m.hideUID {
			result.UID = acc.uid
		}
		return result
	}

	uid := model.UserID(uuid.New().String())
	m.accounts[email] = &memoryAccount{uid: uid, name: account.DisplayName}
	return model.ProvisionResult{Status: model.ProvisionCreated, UID: uid, Email: email}
}

func (m *Memory) Authenticate(ctx context.Context, credential string) (*authmodel.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for email, acc := range m.accounts {
		if acc.uid.String() == credential {
			return authmodel.NewToken(credential, email, acc.name), nil
		}
	}
	return nil, goerr.Wrap(ErrInvalidCredential, "unknown account")
}

func (m *Memory) IsNoAuthn() bool {
	return false
}

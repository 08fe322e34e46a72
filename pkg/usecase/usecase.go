package usecase

import (
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/service/eventbus"
)

type UseCases struct {
	repo     interfaces.Repository
	identity interfaces.IdentityProvider
	storage  interfaces.BlobStorage
	bus      interfaces.ErrorBus

	Initiative *InitiativeUseCase
	Task       *TaskUseCase
	Attachment *AttachmentUseCase
	Master     *MasterUseCase
	User       *UserUseCase
	Rating     *RatingUseCase
	Seed       *SeedUseCase
}

type Option func(*UseCases)

func WithIdentityProvider(provider interfaces.IdentityProvider) Option {
	return func(uc *UseCases) {
		uc.identity = provider
	}
}

func WithBlobStorage(storage interfaces.BlobStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

// WithErrorBus sets the bus permission failures are published on. A private
// bus is created when none is given.
func WithErrorBus(bus interfaces.ErrorBus) Option {
	return func(uc *UseCases) {
		uc.bus = bus
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.bus == nil {
		uc.bus = eventbus.New()
	}

	g := &guard{repo: repo, bus: uc.bus}
	uc.Initiative = NewInitiativeUseCase(g)
	uc.Task = NewTaskUseCase(g)
	uc.Attachment = NewAttachmentUseCase(g, uc.storage)
	uc.Master = NewMasterUseCase(g)
	uc.User = NewUserUseCase(g)
	uc.Rating = NewRatingUseCase(g)
	uc.Seed = NewSeedUseCase(repo, uc.identity)

	return uc
}

// ErrorBus returns the bus permission failures are published on
func (uc *UseCases) ErrorBus() interfaces.ErrorBus {
	return uc.bus
}

package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"google.golang.org/api/option"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = model.ErrNotFound

const (
	usersCollection        = "users"
	departmentsCollection  = "departments"
	designationsCollection = "designations"
	initiativesCollection  = "initiatives"

	tasksCollection             = "tasks"
	attachmentsCollection       = "attachments"
	initiativeRatingsCollection = "initiativeRatings"
	userRatingsCollection       = "userRatings"
	dailyCheckinsCollection     = "dailyCheckins"

	// Firestore limits
	// Reference: https://firebase.google.com/docs/firestore/quotas
	maxInQueryValues = model.MaxQueryFanOut // values per "in" filter
	maxBatchWrites   = 500                  // writes per transaction
)

type Firestore struct {
	client *firestore.Client
	prefix string

	user       *userRepository
	initiative *initiativeRepository
	task       *taskRepository
	attachment *attachmentRepository
	master     *masterRepository
	rating     *ratingRepository
}

var _ interfaces.Repository = &Firestore{}

type config struct {
	prefix        string
	clientOptions []option.ClientOption
}

type Option func(*config)

// WithCollectionPrefix prepends prefix to every top-level collection name
func WithCollectionPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithClientOptions passes options such as credentials to the Firestore client
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *config) {
		c.clientOptions = append(c.clientOptions, opts...)
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, cfg.clientOptions...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client: client,
		prefix: cfg.prefix,
	}
	f.user = &userRepository{f: f}
	f.initiative = &initiativeRepository{f: f}
	f.task = &taskRepository{f: f}
	f.attachment = &attachmentRepository{f: f}
	f.master = &masterRepository{f: f}
	f.rating = &ratingRepository{f: f}

	return f, nil
}

func (f *Firestore) collection(name string) *firestore.CollectionRef {
	if f.prefix != "" {
		return f.client.Collection(f.prefix + "_" + name)
	}
	return f.client.Collection(name)
}

func (f *Firestore) users() *firestore.CollectionRef {
	return f.collection(usersCollection)
}

func (f *Firestore) initiatives() *firestore.CollectionRef {
	return f.collection(initiativesCollection)
}

func (f *Firestore) masters(kind model.MasterKind) *firestore.CollectionRef {
	switch kind {
	case model.MasterDesignation:
		return f.collection(designationsCollection)
	default:
		return f.collection(departmentsCollection)
	}
}

func (f *Firestore) subCollection(initiativeID model.InitiativeID, name string) *firestore.CollectionRef {
	return f.initiatives().Doc(initiativeID.String()).Collection(name)
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Initiative() interfaces.InitiativeRepository {
	return f.initiative
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) Attachment() interfaces.AttachmentRepository {
	return f.attachment
}

func (f *Firestore) Master() interfaces.MasterRepository {
	return f.master
}

func (f *Firestore) Rating() interfaces.RatingRepository {
	return f.rating
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

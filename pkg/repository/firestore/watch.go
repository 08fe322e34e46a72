package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// watchQuery calls fn with the full result set of q on every change until ctx
// is done
func watchQuery(ctx context.Context, q firestore.Query, fn func([]*firestore.DocumentSnapshot) error) error {
	iter := q.Snapshots(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if isWatchEnd(ctx, err) {
				return nil
			}
			return goerr.Wrap(err, "failed to receive query snapshot")
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to read query snapshot")
		}
		if err := fn(docs); err != nil {
			return err
		}
	}
}

// watchDocument calls fn with the document on every change until ctx is
// done. A missing document is delivered as a snapshot whose Exists is false.
func watchDocument(ctx context.Context, ref *firestore.DocumentRef, fn func(*firestore.DocumentSnapshot) error) error {
	iter := ref.Snapshots(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if isWatchEnd(ctx, err) {
				return nil
			}
			return goerr.Wrap(err, "failed to receive document snapshot", goerr.V("path", ref.Path))
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

func isWatchEnd(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, iterator.Done) || errors.Is(err, context.Canceled) {
		return true
	}
	return status.Code(err) == codes.Canceled
}

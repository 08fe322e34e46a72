package repository_test

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// purgeCollections deletes every root collection named prefix_* together
// with the sub-collections of its documents
func purgeCollections(ctx context.Context, projectID, databaseID, prefix string) error {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to create firestore client for cleanup")
	}
	defer client.Close()

	bulkWriter := client.BulkWriter(ctx)
	defer bulkWriter.End()

	cols := client.Collections(ctx)
	for {
		col, err := cols.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to list root collections")
		}
		if !strings.HasPrefix(col.ID, prefix+"_") {
			continue
		}
		if err := deleteCollection(ctx, bulkWriter, col); err != nil {
			return err
		}
	}

	bulkWriter.Flush()
	return nil
}

func deleteCollection(ctx context.Context, bulkWriter *firestore.BulkWriter, col *firestore.CollectionRef) error {
	iter := col.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate documents for deletion", goerr.V("collection", col.Path))
		}

		subs := doc.Ref.Collections(ctx)
		for {
			sub, err := subs.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return goerr.Wrap(err, "failed to list sub-collections", goerr.V("path", doc.Ref.Path))
			}
			if err := deleteCollection(ctx, bulkWriter, sub); err != nil {
				return err
			}
		}

		if _, err := bulkWriter.Delete(doc.Ref); err != nil {
			return goerr.Wrap(err, "failed to delete document", goerr.V("path", doc.Ref.Path))
		}
	}
}

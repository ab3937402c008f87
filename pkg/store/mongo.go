package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arborview/arborview/pkg/tree"
)

// DefaultCollection is the MongoDB collection holding hierarchy rows.
const DefaultCollection = "nodes"

// MongoStore persists rows in a MongoDB collection, one document per row
// ({name, description, parent}). This is the production backend behind the
// graph API.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	// URI is the connection string, e.g. "mongodb://localhost:27017".
	URI string

	// Database is the database name.
	Database string

	// Collection is the collection name. Empty means DefaultCollection.
	Collection string
}

// NewMongoStore connects to MongoDB and returns a store over the
// configured collection. The connection is verified with a ping so that
// misconfiguration surfaces at startup rather than on first request.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Rows returns every document in the collection as a flat row.
// Returns ErrEmptyStore when the collection is empty.
func (s *MongoStore) Rows(ctx context.Context) ([]tree.FlatNode, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find rows: %w", err)
	}
	defer cur.Close(ctx)

	var rows []tree.FlatNode
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyStore
	}
	return rows, nil
}

// Put replaces the collection contents with the given rows.
func (s *MongoStore) Put(ctx context.Context, rows []tree.FlatNode) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	docs := make([]any, len(rows))
	for i, r := range rows {
		docs[i] = r
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

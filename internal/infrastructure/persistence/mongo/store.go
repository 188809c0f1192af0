// Package mongo implements the repositories on MongoDB. Documents keep UUID
// string ids, Decimal128 money and UTC timestamps.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
	OrdersCollection     = "orders"
	UsersCollection      = "users"
	CountersCollection   = "counters"
)

// Store owns the client connection and the application database
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection
func NewStore(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{client: client, database: client.Database(cfg.DBName)}, nil
}

// Database returns the application database handle
func (s *Store) Database() *mongo.Database {
	return s.database
}

// Ping checks that the deployment is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		ProductsCollection: {
			{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// sortFields maps domain sort keys to document fields
var sortFields = map[string]string{
	"name":      "name",
	"price":     "price",
	"sales":     "sales",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

func sortSpec(fields []shared.SortField) bson.D {
	spec := bson.D{}
	for _, f := range fields {
		name, ok := sortFields[f.Field]
		if !ok {
			continue
		}
		dir := 1
		if f.Desc {
			dir = -1
		}
		spec = append(spec, bson.E{Key: name, Value: dir})
	}
	if len(spec) == 0 {
		spec = bson.D{{Key: "createdAt", Value: -1}}
	}
	return spec
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, op string) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewPersistenceError(op, err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptions, op string) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, shared.NewPersistenceError(op, err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, shared.NewPersistenceError(op, err)
	}
	return docs, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id string, doc any, op string) error {
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.ErrAlreadyExists
		}
		return shared.NewPersistenceError(op, err)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string, op string) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return shared.NewPersistenceError(op, err)
	}
	if result.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func idStrings[T fmt.Stringer](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

package mongo

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository implements identity.UserRepository on MongoDB
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

// FindByEmail finds a user by normalized email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.findOne(ctx, bson.M{"email": identity.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*identity.User, error) {
	doc, err := findOne[userDoc](ctx, r.coll, filter, "find user")
	if err != nil {
		return nil, err
	}
	user := doc.toDomain()
	return &user, nil
}

// ExistsByEmail checks if an email is already registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": identity.NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, shared.NewPersistenceError("check user email", err)
	}
	return n > 0, nil
}

// Save creates or updates a user
func (r *UserRepository) Save(ctx context.Context, user *identity.User) error {
	return replaceByID(ctx, r.coll, user.ID.String(), userToDoc(user), "save user")
}

var _ identity.UserRepository = (*UserRepository)(nil)

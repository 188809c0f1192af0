package mongo

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository implements catalog.CategoryRepository on MongoDB
type CategoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository creates a CategoryRepository
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(CategoriesCollection)}
}

// FindByID finds a category by its ID
func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	doc, err := findOne[categoryDoc](ctx, r.coll, bson.M{"_id": id.String()}, "find category")
	if err != nil {
		return nil, err
	}
	category := doc.toDomain()
	return &category, nil
}

// FindByIDs finds the categories among ids that exist
func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	if len(ids) == 0 {
		return []catalog.Category{}, nil
	}
	docs, err := findAll[categoryDoc](ctx, r.coll, bson.M{"_id": bson.M{"$in": idStrings(ids)}}, nil, "find categories")
	if err != nil {
		return nil, err
	}
	return categoriesToDomain(docs), nil
}

// FindAll finds all categories matching the filter
func (r *CategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	query := bson.M{}
	if filter.Search != "" {
		query["name"] = searchRegex(filter.Search)
	}
	docs, err := findAll[categoryDoc](ctx, r.coll, query, options.Find().SetSort(sortSpec(filter.Sort)), "list categories")
	if err != nil {
		return nil, err
	}
	return categoriesToDomain(docs), nil
}

// Exists reports whether a category with the given ID exists
func (r *CategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id.String()}, options.Count().SetLimit(1))
	if err != nil {
		return false, shared.NewPersistenceError("check category", err)
	}
	return n > 0, nil
}

// Save creates or updates a category
func (r *CategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return replaceByID(ctx, r.coll, category.ID.String(), categoryToDoc(category), "save category")
}

// Delete deletes a category
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.coll, id.String(), "delete category")
}

// Count counts all categories
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, shared.NewPersistenceError("count categories", err)
	}
	return n, nil
}

func categoriesToDomain(docs []categoryDoc) []catalog.Category {
	out := make([]catalog.Category, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out
}

// searchRegex matches search as a literal, case-insensitive substring
func searchRegex(search string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
}

var _ catalog.CategoryRepository = (*CategoryRepository)(nil)

package mongo

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository implements catalog.ProductRepository on MongoDB
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a ProductRepository
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(ProductsCollection)}
}

// FindByID finds a product by its ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	doc, err := findOne[productDoc](ctx, r.coll, bson.M{"_id": id.String()}, "find product")
	if err != nil {
		return nil, err
	}
	product := doc.toDomain()
	return &product, nil
}

// FindByIDs finds the products among ids that exist
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	docs, err := findAll[productDoc](ctx, r.coll, bson.M{"_id": bson.M{"$in": idStrings(ids)}}, nil, "find products")
	if err != nil {
		return nil, err
	}
	return productsToDomain(docs), nil
}

// FindAll finds all products matching the filter
func (r *ProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := bson.M{}
	if filter.Search != "" {
		query["name"] = searchRegex(filter.Search)
	}
	if filter.CategoryID != nil {
		query["categoryId"] = filter.CategoryID.String()
	}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = toDecimal128(*filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		price["$lte"] = toDecimal128(*filter.MaxPrice)
	}
	if len(price) > 0 {
		query["price"] = price
	}

	docs, err := findAll[productDoc](ctx, r.coll, query, options.Find().SetSort(sortSpec(filter.Sort)), "list products")
	if err != nil {
		return nil, err
	}
	return productsToDomain(docs), nil
}

// Save creates or updates a product. The sales counter is only written on insert.
func (r *ProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	doc := productToDoc(product)
	update := bson.M{
		"$set": bson.M{
			"name":        doc.Name,
			"pic":         doc.Pic,
			"description": doc.Description,
			"type":        doc.Type,
			"price":       doc.Price,
			"categoryId":  doc.CategoryID,
			"updatedAt":   doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"sales":     doc.Sales,
			"createdAt": doc.CreatedAt,
		},
	}
	if _, err := r.coll.UpdateByID(ctx, doc.ID, update, options.Update().SetUpsert(true)); err != nil {
		return shared.NewPersistenceError("save product", err)
	}
	return nil
}

// Delete deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.coll, id.String(), "delete product")
}

// Count counts all products
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, shared.NewPersistenceError("count products", err)
	}
	return n, nil
}

func productsToDomain(docs []productDoc) []catalog.Product {
	out := make([]catalog.Product, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)

package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/platform/database"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/product/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type productDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Category  string               `bson:"category"`
	Price     primitive.Decimal128 `bson:"price"`
	Stock     int                  `bson:"stock"`
	ImageURL  string               `bson:"image_url,omitempty"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (d productDocument) toDomain() domain.Product {
	price, _ := decimal.NewFromString(d.Price.String())
	return domain.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Category:  d.Category,
		Price:     price,
		Stock:     d.Stock,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// toDecimal128 converts a shopspring decimal for storage in Mongo.
func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

type mongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{col: db.Collection(database.ProductsCollection)}
}

func (r *mongoProductRepository) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]domain.Product, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		logger.Error(op+": find failed", err)
		return nil, err
	}
	defer cur.Close(ctx)

	products := []domain.Product{}
	for cur.Next(ctx) {
		var doc productDocument
		if err := cur.Decode(&doc); err != nil {
			logger.Error(op+": decode failed", err)
			return nil, err
		}
		products = append(products, doc.toDomain())
	}
	return products, cur.Err()
}

func (r *mongoProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	q := bson.M{}
	if filter.Category != "" {
		q["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.Category) + "$", Options: "i"}
	}
	if filter.Search != "" {
		q["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}
	return r.find(ctx, "ListProducts", q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *mongoProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	values, err := r.col.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		logger.Error("ListCategories: distinct failed", err)
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if c, ok := v.(string); ok {
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *mongoProductRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "stock", Value: 1}, {Key: "name", Value: 1}})
	return r.find(ctx, "ListLowStock", bson.M{"stock": bson.M{"$lte": threshold}}, opts)
}

func (r *mongoProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	var doc productDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: find failed", err)
		return nil, err
	}
	p := doc.toDomain()
	return &p, nil
}

func (r *mongoProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	price, err := toDecimal128(product.Price)
	if err != nil {
		return fmt.Errorf("invalid product price %s: %w", product.Price, err)
	}
	now := time.Now().UTC()
	doc := productDocument{
		ID:        primitive.NewObjectID(),
		Name:      product.Name,
		Category:  product.Category,
		Price:     price,
		Stock:     product.Stock,
		ImageURL:  product.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		logger.Error("CreateProduct: insert failed", err)
		return err
	}
	product.ID = doc.ID.Hex()
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

func (r *mongoProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return ErrProductNotFound
	}
	price, err := toDecimal128(product.Price)
	if err != nil {
		return fmt.Errorf("invalid product price %s: %w", product.Price, err)
	}
	update := bson.M{"$set": bson.M{
		"name":       product.Name,
		"category":   product.Category,
		"price":      price,
		"stock":      product.Stock,
		"image_url":  product.ImageURL,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProductNotFound
		}
		logger.Error("UpdateProduct: update failed", err, zap.String("product_id", product.ID))
		return err
	}
	product.CreatedAt = doc.CreatedAt
	product.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *mongoProductRepository) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		logger.Error("DeleteProduct: delete failed", err, zap.String("product_id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReserveStock matches on stock >= quantity and applies $inc in the same FindOneAndUpdate,
// which Mongo executes atomically on a single document.
func (r *mongoProductRepository) ReserveStock(ctx context.Context, id string, quantity int) (*domain.ProductSnapshot, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	filter := bson.M{"_id": oid, "stock": bson.M{"$gte": quantity}}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		snap := doc.toDomain().Snapshot()
		return &snap, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		logger.Error("ReserveStock: update failed", err, zap.String("product_id", id))
		return nil, err
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		logger.Error("ReserveStock: existence probe failed", err, zap.String("product_id", id))
		return nil, err
	}
	if n == 0 {
		return nil, ErrProductNotFound
	}
	return nil, ErrInsufficientStock
}

func (r *mongoProductRepository) ReleaseStock(ctx context.Context, id string, quantity int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}
	update := bson.M{
		"$inc": bson.M{"stock": quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		logger.Error("ReleaseStock: update failed", err, zap.String("product_id", id), zap.Int("quantity", quantity))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

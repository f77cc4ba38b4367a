package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/platform/database"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/sale/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type saleDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	ProductID       string               `bson:"product_id"`
	ProductName     string               `bson:"product_name"`
	ProductCategory string               `bson:"product_category"`
	UnitPrice       primitive.Decimal128 `bson:"unit_price"`
	Quantity        int                  `bson:"quantity"`
	TotalAmount     primitive.Decimal128 `bson:"total_amount"`
	CustomerName    string               `bson:"customer_name"`
	PaymentMethod   string               `bson:"payment_method"`
	SaleDate        time.Time            `bson:"sale_date"`
	CreatedAt       time.Time            `bson:"created_at"`
}

func (d saleDocument) toDomain() domain.Sale {
	unitPrice, _ := decimal.NewFromString(d.UnitPrice.String())
	total, _ := decimal.NewFromString(d.TotalAmount.String())
	return domain.Sale{
		ID:              d.ID.Hex(),
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		ProductCategory: d.ProductCategory,
		UnitPrice:       unitPrice,
		Quantity:        d.Quantity,
		TotalAmount:     total,
		CustomerName:    d.CustomerName,
		PaymentMethod:   d.PaymentMethod,
		SaleDate:        d.SaleDate,
		CreatedAt:       d.CreatedAt,
	}
}

type mongoSaleRepository struct {
	col *mongo.Collection
}

func NewMongoSaleRepository(db *mongo.Database) SaleRepository {
	return &mongoSaleRepository{col: db.Collection(database.SalesCollection)}
}

func (r *mongoSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	unitPrice, err := primitive.ParseDecimal128(sale.UnitPrice.String())
	if err != nil {
		return fmt.Errorf("invalid unit price %s: %w", sale.UnitPrice, err)
	}
	total, err := primitive.ParseDecimal128(sale.TotalAmount.String())
	if err != nil {
		return fmt.Errorf("invalid total amount %s: %w", sale.TotalAmount, err)
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	doc := saleDocument{
		ID:              primitive.NewObjectID(),
		ProductID:       sale.ProductID,
		ProductName:     sale.ProductName,
		ProductCategory: sale.ProductCategory,
		UnitPrice:       unitPrice,
		Quantity:        sale.Quantity,
		TotalAmount:     total,
		CustomerName:    sale.CustomerName,
		PaymentMethod:   sale.PaymentMethod,
		SaleDate:        sale.SaleDate,
		CreatedAt:       sale.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		logger.Error("CreateSale: insert failed", err, zap.String("product_id", sale.ProductID))
		return err
	}
	sale.ID = doc.ID.Hex()
	return nil
}

func (r *mongoSaleRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	var doc saleDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSaleNotFound
		}
		logger.Error("GetSaleByID: find failed", err)
		return nil, err
	}
	s := doc.toDomain()
	return &s, nil
}

func (r *mongoSaleRepository) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	q := bson.M{}
	if filter.ProductID != "" {
		q["product_id"] = filter.ProductID
	}
	if filter.HasDateRange() {
		q["sale_date"] = bson.M{"$gte": *filter.StartDate, "$lte": *filter.EndDate}
	}

	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "sale_date", Value: -1}}))
	if err != nil {
		logger.Error("ListSales: find failed", err)
		return nil, err
	}
	defer cur.Close(ctx)

	sales := []domain.Sale{}
	for cur.Next(ctx) {
		var doc saleDocument
		if err := cur.Decode(&doc); err != nil {
			logger.Error("ListSales: decode failed", err)
			return nil, err
		}
		sales = append(sales, doc.toDomain())
	}
	return sales, cur.Err()
}

func (r *mongoSaleRepository) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	oid, err := primitive.ObjectIDFromHex(sale.ID)
	if err != nil {
		return ErrSaleNotFound
	}
	update := bson.M{"$set": bson.M{
		"customer_name":  sale.CustomerName,
		"payment_method": sale.PaymentMethod,
		"sale_date":      sale.SaleDate,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		logger.Error("UpdateSale: update failed", err, zap.String("sale_id", sale.ID))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSaleNotFound
	}
	return nil
}

func (r *mongoSaleRepository) DeleteSale(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrSaleNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		logger.Error("DeleteSale: delete failed", err, zap.String("sale_id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSaleNotFound
	}
	return nil
}

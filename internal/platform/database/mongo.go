package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	ProductsCollection = "Products"
	SalesCollection    = "Sales"
)

// ConnectMongo opens a client against uri and pings it before returning the database handle.
// The caller owns the client and must Disconnect it.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(dbName)
	_, err = db.Collection(SalesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sale_date", Value: -1}}},
		{Keys: bson.D{{Key: "product_id", Value: 1}}},
	})
	if err != nil {
		// Index bukan syarat untuk berjalan, cukup dicatat
		logger.Warn("ConnectMongo: failed to create sales indexes", zap.Error(err))
	}

	logger.Info("Successfully connected to MongoDB", zap.String("database", dbName))
	return client, db, nil
}

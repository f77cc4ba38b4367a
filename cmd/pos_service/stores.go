package main

import (
	"context"
	"fmt"

	"github.com/ridloal/pos-forecast-engine/internal/platform/config"
	"github.com/ridloal/pos-forecast-engine/internal/platform/database"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	productRepo "github.com/ridloal/pos-forecast-engine/internal/product/repository"
	saleRepo "github.com/ridloal/pos-forecast-engine/internal/sale/repository"
	"go.uber.org/zap"
)

type stores struct {
	products productRepo.ProductRepository
	sales    saleRepo.SaleRepository
	close    func()
}

// openStores connects the persistence backend named by STORE_DRIVER.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	logger.Info("Opening store", zap.String("driver", cfg.StoreDriver))

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.Connect(cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			products: productRepo.NewPostgresProductRepository(db),
			sales:    saleRepo.NewPostgresSaleRepository(db),
			close:    func() { db.Close() },
		}, nil

	case config.StoreDriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return &stores{
			products: productRepo.NewMongoProductRepository(db),
			sales:    saleRepo.NewMongoSaleRepository(db),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.Error("Mongo disconnect failed", err)
				}
			},
		}, nil

	case config.StoreDriverMemory:
		return &stores{
			products: productRepo.NewMemoryProductRepository(),
			sales:    saleRepo.NewMemorySaleRepository(),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q (want postgres, mongo or memory)", cfg.StoreDriver)
}

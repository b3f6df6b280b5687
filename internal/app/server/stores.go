package server

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"emprecords/internal/domain/employee"
	"emprecords/internal/platform/config"
	"emprecords/internal/platform/db"
	"emprecords/internal/platform/mongodb"
	"emprecords/internal/platform/seed"
)

// storeSet is the persistence chosen by STORE_DRIVER.
type storeSet struct {
	employees     employee.EmployeeStore
	compensations employee.CompensationStore
	seedTarget    seed.Target
	ping          func(context.Context) error
	close         func(context.Context) error
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (storeSet, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongoStores(ctx, cfg, logger)
	case config.DriverPostgres:
		return openPostgresStores(ctx, cfg, logger)
	case config.DriverMemory:
		employees := employee.NewMemoryEmployees()
		return storeSet{
			employees:     employees,
			compensations: employee.NewMemoryCompensations(),
			seedTarget:    employees,
			ping:          func(context.Context) error { return nil },
			close:         func(context.Context) error { return nil },
		}, nil
	default:
		return storeSet{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openMongoStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (storeSet, error) {
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return storeSet{}, err
	}
	database := client.Database(cfg.MongoDatabase)
	if err := employee.EnsureMongoIndexes(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return storeSet{}, err
	}
	logger.Info("mongo store ready", zap.String("database", cfg.MongoDatabase))

	employees := employee.NewMongoEmployees(database)
	return storeSet{
		employees:     employees,
		compensations: employee.NewMongoCompensations(database),
		seedTarget:    employees,
		ping: func(ctx context.Context) error {
			return mongodb.Ping(ctx, client)
		},
		close: func(ctx context.Context) error {
			return disconnectMongo(ctx, client)
		},
	}, nil
}

func disconnectMongo(ctx context.Context, client *mongo.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

func openPostgresStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (storeSet, error) {
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return storeSet{}, err
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return storeSet{}, fmt.Errorf("migrations failed: %w", err)
		}
	}
	logger.Info("postgres store ready", zap.Bool("migrated", cfg.RunMigrations))

	employees := employee.NewPostgresEmployees(pool)
	return storeSet{
		employees:     employees,
		compensations: employee.NewPostgresCompensations(pool),
		seedTarget:    employees,
		ping:          pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

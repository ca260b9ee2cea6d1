package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/base-14/examples/go/go-temporal-oms/internal/database"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	orders    *database.OrderRepository
	shipments *database.ShipmentRepository
	inventory *database.InventoryRepository
}

func TestRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("oms"),
		postgres.WithUsername("oms"),
		postgres.WithPassword("oms"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := database.New(database.Config{DatabaseURL: dsn})
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db))
	s.Require().NoError(database.Seed(db))
	s.db = db
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	if s.db != nil {
		s.Require().NoError(database.Close(s.db))
	}
	if s.container != nil {
		s.Require().NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *RepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE TABLE orders, shipments").Error)
	s.orders = database.NewOrderRepository(s.db)
	s.shipments = database.NewShipmentRepository(s.db)
	s.inventory = database.NewInventoryRepository(s.db)
}

func (s *RepositoryIntegrationTestSuite) TestOrderUpsertKeepsFirstReceivedAt() {
	ctx := context.Background()
	received := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.Require().NoError(s.orders.Upsert(ctx, &models.Order{
		ID: "O1", CustomerID: "C1", Status: models.OrderStatusPending, ReceivedAt: received,
	}))
	s.Require().NoError(s.orders.Upsert(ctx, &models.Order{
		ID: "O1", CustomerID: "C1", Status: models.OrderStatusProcessing, ReceivedAt: received.Add(time.Hour),
	}))

	got, err := s.orders.Get(ctx, "O1")
	s.Require().NoError(err)
	s.Equal(models.OrderStatusProcessing, got.Status)
	s.True(received.Equal(got.ReceivedAt))
}

func (s *RepositoryIntegrationTestSuite) TestOrderGetMissing() {
	_, err := s.orders.Get(context.Background(), "nope")
	s.ErrorIs(err, database.ErrNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestOrderListNewestFirst() {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.orders.Upsert(ctx, &models.Order{ID: "old", CustomerID: "C", Status: models.OrderStatusCompleted, ReceivedAt: base}))
	s.Require().NoError(s.orders.Upsert(ctx, &models.Order{ID: "new", CustomerID: "C", Status: models.OrderStatusPending, ReceivedAt: base.Add(time.Minute)}))

	orders, err := s.orders.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(orders, 2)
	s.Equal("new", orders[0].ID)
	s.Equal("old", orders[1].ID)
}

func (s *RepositoryIntegrationTestSuite) TestShipmentUpsert() {
	ctx := context.Background()
	booked := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(s.shipments.Upsert(ctx, &models.Shipment{ID: "O1:1", Status: models.ShipmentStatusBooked, BookedAt: booked, UpdatedAt: booked}))
	s.Require().NoError(s.shipments.Upsert(ctx, &models.Shipment{ID: "O1:1", Status: models.ShipmentStatusDelivered, BookedAt: booked.Add(time.Hour), UpdatedAt: booked.Add(time.Hour)}))

	got, err := s.shipments.Get(ctx, "O1:1")
	s.Require().NoError(err)
	s.Equal(models.ShipmentStatusDelivered, got.Status)
	s.True(booked.Equal(got.BookedAt))
}

func (s *RepositoryIntegrationTestSuite) TestInventoryAvailable() {
	ctx := context.Background()

	ok, err := s.inventory.Available(ctx, "Nike-1", 2)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.inventory.Available(ctx, "Adidas-1", 1)
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.inventory.Available(ctx, "unknown-sku", 1)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RepositoryIntegrationTestSuite) TestInventoryListAndGet() {
	ctx := context.Background()

	products, err := s.inventory.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(products, 5)
	s.Equal("Adidas-1", products[0].SKU)

	product, err := s.inventory.GetBySKU(ctx, "Puma-1")
	s.Require().NoError(err)
	s.Equal(25, product.Stock)

	_, err = s.inventory.GetBySKU(ctx, "Reebok-1")
	s.ErrorIs(err, database.ErrNotFound)
}

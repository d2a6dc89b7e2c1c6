package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOrderQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrderQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *GetOrderQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.ItemDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetOrderQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db)
}

func (suite *GetOrderQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOrderQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetOrderQueryHandlerTestSuite) seedOrder() *order.Order {
	money := func(cents int64) kernel.Money {
		m, err := kernel.NewMoney(cents)
		suite.Require().NoError(err)
		return m
	}

	mug, err := order.NewLineItem("SKU-1", "Ceramic mug", money(2500), 2)
	suite.Require().NoError(err)
	lamp, err := order.NewLineItem("SKU-42", "Desk lamp", money(1999), 1)
	suite.Require().NoError(err)
	addr, err := order.NewAddress("12 Main St", "Springfield", "62704", "IL", "US")
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(),
		[]order.LineItem{mug, lamp}, addr, addr,
		time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)

	err = suite.orderRepo.Add(context.Background(), o)
	suite.Require().NoError(err)
	return o
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ReturnsOrderWithItems() {
	o := suite.seedOrder()
	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)

	resp, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(o.ID(), resp.ID)
	suite.Equal(o.UserID(), resp.UserID)
	suite.Equal("PendingPayment", resp.Status)
	suite.Equal(int64(1), resp.Version)

	suite.Require().Len(resp.Items, 2)
	suite.Equal("SKU-1", resp.Items[0].SKU)
	suite.Equal("Ceramic mug", resp.Items[0].Name)
	suite.Equal(int64(2500), resp.Items[0].UnitPriceCents)
	suite.Equal(2, resp.Items[0].Quantity)
	suite.Equal("SKU-42", resp.Items[1].SKU)

	suite.Equal(int64(6999), resp.TotalCents)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ReflectsTransitions() {
	o := suite.seedOrder()
	err := o.TransitionTo(order.PaymentConfirmed, time.Now().UTC())
	suite.Require().NoError(err)
	err = suite.orderRepo.Update(context.Background(), o)
	suite.Require().NoError(err)

	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)

	resp, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal("PaymentConfirmed", resp.Status)
	suite.Equal(int64(2), resp.Version)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_UnknownOrder_ReturnsNotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetOrderQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetOrderQuery constructor")
}

func TestGetOrderQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderQueryHandlerTestSuite))
}

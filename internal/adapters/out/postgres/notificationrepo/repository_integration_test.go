package notificationrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type NotificationRepositoriesTestSuite struct {
	suite.Suite
	container   *postgres.PostgresContainer
	db          *gorm.DB
	preferences *notificationrepo.GormPreferenceRepository
	log         *notificationrepo.GormNotificationLogRepository
	sentAt      time.Time
}

func (suite *NotificationRepositoriesTestSuite) SetupSuite() {
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

	err = db.AutoMigrate(&notificationrepo.PreferenceDTO{}, &notificationrepo.NotificationDTO{})
	suite.Require().NoError(err)

	suite.sentAt = time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	suite.preferences = notificationrepo.NewGormPreferenceRepository(db)
	suite.log = notificationrepo.NewGormNotificationLogRepository(db, func() time.Time { return suite.sentAt })
}

func (suite *NotificationRepositoriesTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *NotificationRepositoriesTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE notification_preferences, notifications CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *NotificationRepositoriesTestSuite) seedPreference(userID kernel.UUID) {
	dto := notificationrepo.PreferenceDTO{
		UserID:          userID.Bytes(),
		TypeSettings:    `{"order_update": {"enabled": true, "channels": ["email", "in_app"]}}`,
		ChannelSwitches: `{"email": true, "sms": false}`,
		QuietStart:      "22:00",
		QuietEnd:        "07:00",
		Timezone:        "America/Chicago",
	}
	err := suite.db.Create(&dto).Error
	suite.Require().NoError(err)
}

func (suite *NotificationRepositoriesTestSuite) newNotification(status notification.DeliveryStatus, attempts int) notification.Notification {
	return notification.Notification{
		ID:        kernel.NewUUID(),
		UserID:    kernel.NewUUID(),
		OrderID:   kernel.NewUUID(),
		Type:      notification.TypeOrderUpdate,
		Priority:  notification.PriorityMedium,
		Channel:   notification.ChannelEmail,
		DedupeKey: notification.DedupeKey(kernel.NewUUID(), "Shipped", notification.ChannelEmail),
		Subject:   "Order update",
		Body:      "Your order shipped",
		Status:    status,
		Attempts:  attempts,
		CreatedAt: suite.sentAt.Add(-time.Minute),
	}
}

func (suite *NotificationRepositoriesTestSuite) TestPreferenceGet_DecodesStoredSettings() {
	ctx := context.Background()
	userID := kernel.NewUUID()
	suite.seedPreference(userID)

	pref, err := suite.preferences.Get(ctx, userID)
	suite.Require().NoError(err)

	suite.Equal(userID, pref.UserID())
	suite.Equal([]notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
		pref.ResolveChannels(notification.TypeOrderUpdate))
	suite.Equal("America/Chicago", pref.Timezone().String())

	// 23:30 local falls inside the 22:00-07:00 window.
	chicago, err := time.LoadLocation("America/Chicago")
	suite.Require().NoError(err)
	suite.True(pref.InQuietHours(time.Date(2025, 3, 12, 23, 30, 0, 0, chicago)))
}

func (suite *NotificationRepositoriesTestSuite) TestPreferenceGet_UnknownUser() {
	_, err := suite.preferences.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *NotificationRepositoriesTestSuite) TestLogRecordAndGetFailed() {
	ctx := context.Background()
	eligible := suite.newNotification(notification.DeliveryFailed, 2)
	exhausted := suite.newNotification(notification.DeliveryFailed, 5)
	delivered := suite.newNotification(notification.DeliverySent, 1)

	for _, n := range []notification.Notification{eligible, exhausted, delivered} {
		err := suite.log.Record(ctx, n)
		suite.Require().NoError(err)
	}

	rows, err := suite.log.GetFailed(ctx, 5)
	suite.Require().NoError(err)

	suite.Require().Len(rows, 1)
	suite.Equal(eligible.ID, rows[0].ID)
	suite.Equal(eligible.DedupeKey, rows[0].DedupeKey)
	suite.Equal(notification.ChannelEmail, rows[0].Channel)
}

func (suite *NotificationRepositoriesTestSuite) TestLogUpdateDelivery_SentStampsTime() {
	ctx := context.Background()
	n := suite.newNotification(notification.DeliveryFailed, 1)

	err := suite.log.Record(ctx, n)
	suite.Require().NoError(err)

	err = suite.log.UpdateDelivery(ctx, n.ID, notification.DeliverySent, 2)
	suite.Require().NoError(err)

	var dto notificationrepo.NotificationDTO
	err = suite.db.First(&dto, "id = ?", n.ID.Bytes()).Error
	suite.Require().NoError(err)
	suite.Equal(string(notification.DeliverySent), dto.Status)
	suite.Equal(2, dto.Attempts)
	suite.Require().NotNil(dto.SentAt)
	suite.WithinDuration(suite.sentAt, *dto.SentAt, time.Second)
}

func (suite *NotificationRepositoriesTestSuite) TestLogUpdateDelivery_UnknownRow() {
	err := suite.log.UpdateDelivery(context.Background(),
		kernel.NewUUID(), notification.DeliveryFailed, 1)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestNotificationRepositoriesTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationRepositoriesTestSuite))
}

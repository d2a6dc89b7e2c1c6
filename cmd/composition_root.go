package cmd

import (
	"log/slog"
	"strconv"
	"time"

	adapterhttp "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/carrierapi"
	"fulfillment/internal/adapters/out/eventbus"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/adapters/out/redisdedupe"
	"fulfillment/internal/adapters/out/senders"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/keymutex"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters to use cases. Shared singletons (locks,
// registry, carrier client, event bus) are built once here; handlers are
// cheap value types created on demand.
type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	registry      *carrier.Registry
	vocabulary    *shipment.Vocabulary
	orderLocks    *keymutex.KeyMutex
	trackingLocks *keymutex.KeyMutex
	bus           *eventbus.Bus
	carrierClient *carrierapi.HTTPCarrierClient
	dedupeStore   *redisdedupe.Store
	senders       ports.SenderRegistry
	dedupeTTL     time.Duration
	retryAttempts int
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	registry, err := buildCarrierRegistry()
	if err != nil {
		return nil, err
	}

	carrierClient := carrierapi.NewHTTPCarrierClient(carrierapi.Config{
		BaseURLs: map[string]string{
			"dhl":   configs.CarrierDHLBaseURL,
			"ups":   configs.CarrierUPSBaseURL,
			"fedex": configs.CarrierFedexBaseURL,
		},
	}, logger, time.Now)

	redisClient := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})

	root := &CompositionRoot{
		configs:       configs,
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB, time.Now),
		logger:        logger,
		registry:      registry,
		vocabulary:    shipment.DefaultVocabulary(),
		orderLocks:    keymutex.New(),
		trackingLocks: keymutex.New(),
		bus:           eventbus.NewBus(logger),
		carrierClient: carrierClient,
		dedupeStore:   redisdedupe.NewStore(redisClient),
		senders:       buildSenderRegistry(configs),
		dedupeTTL:     parseDurationOr(configs.NotificationDedupeTTL, 24*time.Hour),
		retryAttempts: parseIntOr(configs.NotificationRetryAttempts, 5),
	}

	// Committed order transitions fan out to the notification dispatcher.
	root.bus.Subscribe(root.CreateDispatchNotificationCommandHandler())

	return root, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, time.Now)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.orderLocks, c.bus, time.Now, c.logger)
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateShipmentCommandHandler(
		f,
		c.registry,
		c.carrierClient,
		c.CreateTransitionOrderCommandHandler(),
		c.pickupAddress(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateIngestTrackingEventCommandHandler() commands.IngestTrackingEventCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewIngestTrackingEventCommandHandler(
		f,
		c.trackingLocks,
		c.vocabulary,
		c.CreateTransitionOrderCommandHandler(),
		c.CreateDispatchNotificationCommandHandler(),
		time.Now,
		c.logger,
	)
}

func (c *CompositionRoot) CreateDispatchNotificationCommandHandler() commands.DispatchNotificationCommandHandler {
	return commands.NewDispatchNotificationCommandHandler(
		notificationrepo.NewGormPreferenceRepository(c.gormDB),
		notificationrepo.NewGormNotificationLogRepository(c.gormDB, time.Now),
		c.senders,
		c.dedupeStore,
		c.dedupeTTL,
		time.Now,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRetryFailedNotificationsCommandHandler() commands.RetryFailedNotificationsCommandHandler {
	return commands.NewRetryFailedNotificationsCommandHandler(
		notificationrepo.NewGormNotificationLogRepository(c.gormDB, time.Now),
		c.senders,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTrackingTimelineQueryHandler() queries.GetTrackingTimelineQueryHandler {
	return queries.NewGetTrackingTimelineQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShippingRatesQueryHandler() queries.GetShippingRatesQueryHandler {
	return queries.NewGetShippingRatesQueryHandler(services.NewRateShopper(c.registry))
}

func (c *CompositionRoot) CreateHTTPServer() *adapterhttp.Server {
	return adapterhttp.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateCreateShipmentCommandHandler(),
		c.CreateIngestTrackingEventCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetTrackingTimelineQueryHandler(),
		c.CreateGetShippingRatesQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		shipmentrepo.NewGormShipmentRepository(c.gormDB),
		c.carrierClient,
		c.CreateIngestTrackingEventCommandHandler(),
		c.CreateRetryFailedNotificationsCommandHandler(),
		jobs.Config{
			TrackingPollSchedule:      c.configs.TrackingPollSchedule,
			NotificationRetrySchedule: c.configs.NotificationRetrySchedule,
			RetryMaxAttempts:          c.retryAttempts,
		},
		c.logger,
	)
}

func (c *CompositionRoot) pickupAddress() ports.ShipmentAddress {
	return ports.ShipmentAddress{
		Line1:      c.configs.PickupLine1,
		City:       c.configs.PickupCity,
		PostalCode: c.configs.PickupPostalCode,
		Region:     c.configs.PickupRegion,
		Country:    c.configs.PickupCountry,
	}
}

func buildCarrierRegistry() (*carrier.Registry, error) {
	specs := []struct {
		id, name                 string
		maxWeightKg              float64
		baseCents, perKgCents    int64
		codCents                 int64
		transitDays              int
		supportsCOD              bool
		supportsRealtimeTracking bool
	}{
		{"dhl", "DHL Express", 30, 5000, 1000, 500, 3, true, true},
		{"ups", "UPS Ground", 50, 3000, 800, 400, 5, true, false},
		{"fedex", "FedEx Priority", 70, 6500, 1200, 0, 2, false, true},
	}

	carriers := make([]carrier.Carrier, 0, len(specs))
	for _, s := range specs {
		base, err := kernel.NewMoney(s.baseCents)
		if err != nil {
			return nil, err
		}
		perKg, err := kernel.NewMoney(s.perKgCents)
		if err != nil {
			return nil, err
		}
		cod, err := kernel.NewMoney(s.codCents)
		if err != nil {
			return nil, err
		}

		entry, err := carrier.NewCarrier(s.id, s.name, s.maxWeightKg,
			base, perKg, cod, s.transitDays, s.supportsCOD, s.supportsRealtimeTracking)
		if err != nil {
			return nil, err
		}
		carriers = append(carriers, entry)
	}

	return carrier.NewRegistry(carriers)
}

func buildSenderRegistry(configs Config) ports.SenderRegistry {
	return ports.SenderRegistry{
		notification.ChannelEmail: senders.NewEmailSender(senders.EmailConfig{
			BaseURL:   configs.EmailGatewayURL,
			APIKey:    configs.EmailAPIKey,
			FromEmail: configs.EmailFromAddress,
			FromName:  configs.EmailFromName,
		}),
		notification.ChannelSMS: senders.NewSMSSender(senders.SMSConfig{
			BaseURL:    configs.SMSGatewayURL,
			AuthToken:  configs.SMSAuthToken,
			FromNumber: configs.SMSFromNumber,
		}),
		notification.ChannelPush: senders.NewPushSender(senders.PushConfig{
			BaseURL: configs.PushGatewayURL,
			APIKey:  configs.PushAPIKey,
		}),
		notification.ChannelInApp: senders.NewInAppSender(),
	}
}

func parseIntOr(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

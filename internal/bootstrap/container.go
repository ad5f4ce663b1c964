package bootstrap

import (
	"context"
	"log"

	"homeclean-be/internal/config"
	"homeclean-be/internal/controller"
	"homeclean-be/internal/pkg/logger"
	"homeclean-be/internal/repository/unitofwork"
	"homeclean-be/internal/service"
	"homeclean-be/pkg/execution"
	"homeclean-be/pkg/lifecycle"
	"homeclean-be/pkg/matching"

	pktNats "homeclean-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ReservationController controller.IReservationController
	PaymentController     controller.IPaymentController

	// Background Services (Exposed for main.go to run)
	MatchingConsumerService service.IMatchingConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 3. Lifecycle infrastructure shared by both write paths
	locks := lifecycle.NewKeyedMutex()
	coordinator := matching.NewCoordinator(matching.AutoRequeue{})
	tracker := execution.NewTracker(cfg.Matching.CheckinTolerance)
	statusCache := service.NewStatusCache(rdb, sysLogger)

	publisherService := service.NewPublisherService(cfg.Matching.OfferTopic, pubSub)
	offerEnqueuer := service.NewMatchingOfferService(publisherService)

	reservationService := service.NewReservationService(
		uowFactory,
		locks,
		coordinator,
		tracker,
		offerEnqueuer,
		natsPub,
		statusCache,
		sysLogger,
	)
	paymentService := service.NewPaymentService(
		uowFactory,
		locks,
		natsPub,
		statusCache,
		sysLogger,
	)

	matchingConsumerService := service.NewMatchingConsumerService(
		pubSub,
		cfg.Matching.OfferTopic,
		reservationService,
	)

	// 4. Controllers
	return &Container{
		ReservationController: controller.NewReservationController(reservationService),
		PaymentController:     controller.NewPaymentController(paymentService),

		MatchingConsumerService: matchingConsumerService,

		Logger: sysLogger,
	}
}

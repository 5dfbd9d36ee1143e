package main

import (
	"roombook/internal/rooms/events"
	"roombook/internal/rooms/handler"
	"roombook/internal/rooms/repository"
	"roombook/internal/rooms/service"
	"roombook/internal/rooms/validator"
	"roombook/pkg/app"
	"roombook/pkg/cache"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
	"roombook/pkg/lock"
	"roombook/pkg/model"
)

const ServiceName = "rooms"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Rooms service")
	serverApp := app.NewApplication(cfg)

	roomService, reservationService := initServices(cfg, serverApp)

	api := handler.NewAPI(
		handler.NewRoomHandler(roomService, reservationService, cfg.Log),
		handler.NewBookingHandler(reservationService, cfg.Log),
	)

	checks := []handler.DependencyCheck{handler.MongoCheck(cfg.Client.Mongo)}
	if cfg.Client.Redis != nil {
		checks = append(checks, handler.RedisCheck(cfg.Client.Redis))
	}

	if err := serverApp.SetApp(api, handler.NewHealthHandler(cfg.Log, checks...)); err != nil {
		cfg.Log.Fatal("Failed to configure application", "error", err)
	}
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) (service.RoomService, service.ReservationService) {
	roomCache, err := cache.New[[]*model.Room](int64(cfg.RoomCacheMaxCost), cfg.RoomCacheTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to create room cache", "error", err)
	}
	serverApp.OnShutdown(roomCache.Close)

	roomRepo := repository.NewCachedRoomRepository(repository.NewMongoRoomRepository(cfg), roomCache, cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	fenceRepo := repository.NewMongoRoomFenceRepository(cfg)

	reservationService := service.NewReservationService(
		reservationRepo,
		roomRepo,
		fenceRepo,
		lock.NewKeyedLocker(cfg.BookingLockTimeout),
		validator.NewReservationValidator(cfg.Log),
		initPublisher(cfg, serverApp),
		cfg,
	)
	roomService := service.NewRoomService(roomRepo, cfg)

	cfg.Log.Info("Room and reservation services initialized", "database", cfg.MongoDatabaseName)
	return roomService, reservationService
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Reservation events disabled")
		return events.NewNopPublisher()
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.ReservationEventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		metrics := kafka_middleware.NewMetrics()
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(metrics.ProducerMiddleware())
		serverApp.OnShutdown(func() { metrics.Log(cfg.Log) })
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Reservation events enabled", "topic", cfg.ReservationEventsTopic)
	return events.NewKafkaPublisher(producer)
}

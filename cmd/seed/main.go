package main

import (
	"context"
	"flag"
	"time"

	"roombook/internal/rooms/repository"
	"roombook/internal/seed"
	"roombook/pkg/config"
)

const JobName = "seed"

func main() {
	reset := flag.Bool("reset", false, "delete all tenants, rooms and reservations before seeding")
	tenantName := flag.String("tenant", seed.DefaultTenantName, "name of the demo tenant")
	flag.Parse()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if *reset {
		cfg.Log.Warn("Resetting database", "database", cfg.MongoDatabaseName)
		if err := seed.Reset(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log); err != nil {
			cfg.GracefulShutdown()
			cfg.Log.Fatal("Database reset failed", "error", err)
		}
	}

	seeder := seed.NewSeeder(
		repository.NewMongoTenantRepository(cfg),
		repository.NewMongoRoomRepository(cfg),
		repository.NewMongoReservationRepository(cfg),
		cfg.Log,
	)

	result, err := seeder.Run(ctx, *tenantName)
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Seeding failed", "error", err)
	}

	roomIDs := make([]string, 0, len(result.Rooms))
	for _, room := range result.Rooms {
		roomIDs = append(roomIDs, room.ID)
	}
	cfg.Log.Info("Seeding completed successfully",
		"tenant_id", result.Tenant.ID,
		"room_ids", roomIDs,
		"reservations", len(result.Reservations),
	)
}

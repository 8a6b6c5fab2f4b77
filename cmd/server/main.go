package main

import (
	"fmt"
	"log"
	"math/rand"

	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/engine"
	"fretloop-scheduler/internal/handlers"
	"fretloop-scheduler/internal/store"
	"fretloop-scheduler/internal/store/postgres"
	"fretloop-scheduler/internal/suggestionstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	reg := dimension.NewDefaultRegistry()

	repoFor := func(userID string) (store.Repository, error) {
		return postgres.OpenForUser(cfg.DatabaseURL, "user_"+userID)
	}
	suggFor := func(userID string) suggestionstore.Store {
		return suggestionstore.NewFile("/var/lib/fretloop/suggestions/" + userID + ".json")
	}
	registry := engine.NewRegistry(reg, cfg, repoFor, suggFor, rand.Float64)

	app := fiber.New()
	app.Use(recover.New())

	h := handlers.New(registry)
	handlers.RegisterRoutes(app, h)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	fmt.Printf("fretloop-scheduler listening on port %s\n", cfg.Port)
	log.Fatal(app.Listen("0.0.0.0:" + cfg.Port))
}

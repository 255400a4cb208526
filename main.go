package main

import (
	"flag"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/DszGabriel04/attendance-nitgoa/config"
	"github.com/DszGabriel04/attendance-nitgoa/database"
	"github.com/DszGabriel04/attendance-nitgoa/guard"
	"github.com/DszGabriel04/attendance-nitgoa/handlers"
	"github.com/DszGabriel04/attendance-nitgoa/sessions"
)

func main() {
	seed := flag.Bool("seed", false, "seed the faculty fixtures and exit")
	flag.Parse()

	cfg := config.Load()

	store, err := database.Connect(cfg.SQLitePath)
	if err != nil {
		log.Fatal(err)
	}

	if *seed {
		if err := store.SeedFaculty(); err != nil {
			log.Fatal(err)
		}
		log.Println("Faculty seeding done")
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	registry := sessions.NewRegistry()
	scanGuard := guard.New(rdb, cfg.ScanGuardTTL)

	h := handlers.New(store, registry, scanGuard, cfg)
	router := handlers.Router(h)

	log.Println("Listening on", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

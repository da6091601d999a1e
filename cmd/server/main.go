package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/UkralStul/social-blog-service/internal/auth"
	"github.com/UkralStul/social-blog-service/internal/cache"
	"github.com/UkralStul/social-blog-service/internal/config"
	"github.com/UkralStul/social-blog-service/internal/domain"
	"github.com/UkralStul/social-blog-service/internal/storage"
	"github.com/UkralStul/social-blog-service/internal/storage/inmemory"
	"github.com/UkralStul/social-blog-service/internal/storage/postgres"
	"github.com/UkralStul/social-blog-service/internal/web"
)

func main() {
	storageType := flag.String("storage", "in-memory", "Storage type (in-memory or postgres)")
	flag.Parse()

	cfg := config.Load()

	var store storage.Storage
	var err error

	log.Printf("Starting server with %s storage", *storageType)
	if *storageType == "postgres" {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL must be set for postgres storage")
		}
		store, err = postgres.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
	} else {
		memStore := inmemory.New()
		seedGroups(memStore)
		store = memStore
	}

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	pageCache := cache.New(cfg.CacheTTL)

	server, err := web.New(store, sessions, pageCache, cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server.Routes()); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}

// seedGroups gives the in-memory dev mode a few groups to post into, since
// groups are created independently of the request flow.
func seedGroups(store storage.Storage) {
	ctx := context.Background()
	groups := []*domain.Group{
		{Title: "General", Slug: "general", Description: "Anything goes"},
		{Title: "Travel", Slug: "travel", Description: "Trips and places"},
		{Title: "Tech", Slug: "tech", Description: "Software and hardware"},
	}
	for _, g := range groups {
		if _, err := store.CreateGroup(ctx, g); err != nil {
			log.Fatalf("seedGroups: failed to create group %s: %v", g.Slug, err)
		}
	}
}

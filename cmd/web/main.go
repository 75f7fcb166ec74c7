package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterkuimelis/cardcrawl/internal/config"
	gamelog "github.com/peterkuimelis/cardcrawl/internal/log"
	"github.com/peterkuimelis/cardcrawl/internal/session"
	"github.com/peterkuimelis/cardcrawl/internal/web"
)

func main() {
	if config.LoadDotEnv() {
		log.Println("Loaded .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	port := flag.Int("port", 8080, "HTTP port to listen on")
	flag.StringVar(&cfg.Store, "store", cfg.Store, "save backend: memory, sqlite or redis")
	flag.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "SQLite save file")
	flag.StringVar(&cfg.DecksPath, "decks", cfg.DecksPath, "path to loadouts file")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := cfg.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	store, closer, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closer.Close()

	gcfg := cfg.GameConfig(cat, store)
	gcfg.Logger = gamelog.Discard{}
	sess, err := session.New(ctx, gcfg, nil)
	if err != nil {
		log.Fatalf("Failed to load progress: %v", err)
	}

	srv := web.NewServer(sess, cfg.DecksPath)
	addr := fmt.Sprintf(":%d", *port)
	log.Printf("cardcrawl web UI listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

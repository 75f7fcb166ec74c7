package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/cardcrawl/internal/config"
	"github.com/peterkuimelis/cardcrawl/internal/log"
	ccmcp "github.com/peterkuimelis/cardcrawl/internal/mcp"
	"github.com/peterkuimelis/cardcrawl/internal/session"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	flag.StringVar(&cfg.Store, "store", cfg.Store, "save backend: memory, sqlite or redis")
	flag.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "SQLite save file")
	flag.StringVar(&cfg.DecksPath, "decks", cfg.DecksPath, "path to loadouts file")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed (0 for random)")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	ctx := context.Background()
	cat, err := cfg.LoadCatalog()
	if err != nil {
		fail(err)
	}
	store, closer, err := cfg.OpenStore(ctx)
	if err != nil {
		fail(err)
	}
	defer closer.Close()

	gcfg := cfg.GameConfig(cat, store)
	gcfg.Logger = log.Discard{}
	sess, err := session.New(ctx, gcfg, nil)
	if err != nil {
		fail(err)
	}

	s := server.NewMCPServer("cardcrawl", "1.0.0")
	ccmcp.RegisterTools(s, ccmcp.NewGameSession(sess, cfg.DecksPath))

	if err := server.ServeStdio(s); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterkuimelis/cardcrawl/internal/config"
	"github.com/peterkuimelis/cardcrawl/internal/log"
	ccnet "github.com/peterkuimelis/cardcrawl/internal/net"
	"github.com/peterkuimelis/cardcrawl/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	if config.LoadDotEnv() {
		stdlog.Println("Loaded .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  cardcrawl play [--store S] [--db FILE] [--decks FILE] [--seed N]")
	fmt.Println("  cardcrawl host [--port P] [--store S] [--db FILE] [--decks FILE] [--seed N]")
	fmt.Println("  cardcrawl join [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play in this terminal")
	fmt.Println("  host    Host your profile for a remote terminal")
	fmt.Println("  join    Connect to a hosted game")
}

// sessionFlags registers the flags shared by play and host. Unset flags
// keep the environment configuration.
func sessionFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Store, "store", cfg.Store, "save backend: memory, sqlite or redis")
	fs.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "SQLite save file")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address or URL")
	fs.StringVar(&cfg.DecksPath, "decks", cfg.DecksPath, "path to loadouts file")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "path to a catalog YAML (built-in if empty)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed (0 for random)")
}

func openSession(ctx context.Context, cfg config.Config, logger log.EventLogger) (*ccnet.Handler, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	store, closer, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	gcfg := cfg.GameConfig(cat, store)
	gcfg.Logger = logger
	sess, err := session.New(ctx, gcfg, nil)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return &ccnet.Handler{Session: sess, DeckFile: cfg.DecksPath}, func() { closer.Close() }, nil
}

func runPlay(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	sessionFlags(fs, &cfg)
	fs.Parse(args)

	h, closeStore, err := openSession(ctx, cfg, log.Discard{})
	if err != nil {
		return err
	}
	defer closeStore()
	return ccnet.PlayLocal(ctx, h, os.Stdin, os.Stdout)
}

func runHost(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	sessionFlags(fs, &cfg)
	port := fs.String("port", "9000", "TCP port to listen on")
	fs.Parse(args)

	h, closeStore, err := openSession(ctx, cfg, log.NewTextLogger(os.Stdout))
	if err != nil {
		return err
	}
	defer closeStore()
	srv := &ccnet.Server{Handler: h, Port: *port}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)
	return ccnet.Connect(ctx, *addr, os.Stdin, os.Stdout)
}

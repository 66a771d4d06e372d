package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/meteorlog/internal/api"
	"github.com/lox/meteorlog/internal/catalog"
	"github.com/lox/meteorlog/internal/journal"
	"github.com/lox/meteorlog/internal/notify"
	"github.com/lox/meteorlog/internal/store"
)

var cli struct {
	DB             string        `help:"Path to SQLite database." default:"data/meteorlog.db" env:"METEORLOG_DB"`
	Port           string        `help:"HTTP server port." default:"8080" env:"METEORLOG_PORT"`
	Timezone       string        `help:"Timezone for dates and peak times." default:"UTC" env:"METEORLOG_TZ"`
	StoreRetry     time.Duration `help:"Max elapsed retry time for store writes (0 disables retries)." default:"5s" env:"METEORLOG_STORE_RETRY"`
	ReplanInterval time.Duration `help:"How often the reminder planner re-runs." default:"1h" env:"METEORLOG_REPLAN_INTERVAL"`
	NoNotify       bool          `help:"Disable reminder planning (server only)." env:"METEORLOG_NO_NOTIFY"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("meteorlog"),
		kong.Description("Meteor shower observation log and statistics service."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	loc, err := time.LoadLocation(cli.Timezone)
	if err != nil {
		log.Fatalf("load timezone %q: %v", cli.Timezone, err)
	}

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	cat, err := catalog.New()
	if err != nil {
		log.Fatalf("load shower catalog: %v", err)
	}
	log.Printf("catalog loaded: %d showers", len(cat.All()))

	var backing journal.Store = st
	if cli.StoreRetry > 0 {
		backing = store.NewRetrying(st, cli.StoreRetry)
	}
	jrnl := journal.New(backing)

	planner := notify.NewPlanner(cat, loc)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !cli.NoNotify {
		scheduler := notify.NewScheduler(planner, jrnl, notify.LogNotifier{}, cli.ReplanInterval, loc)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("start reminder scheduler: %v", err)
		}
		defer scheduler.Stop()
	} else {
		log.Println("reminder planning disabled (--no-notify)")
	}

	server := api.NewServer(jrnl, cat, planner, cli.Port, loc)
	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}

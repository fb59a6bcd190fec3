package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jbpowers9/powersbiostrikes-web/internal/calendar"
	"github.com/jbpowers9/powersbiostrikes-web/internal/config"
	"github.com/jbpowers9/powersbiostrikes-web/internal/feed"
	"github.com/jbpowers9/powersbiostrikes-web/internal/quote"
	"github.com/jbpowers9/powersbiostrikes-web/internal/scheduler"
	"github.com/jbpowers9/powersbiostrikes-web/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] feedgen starting...")

	cfgPath := flag.String("config", "configs/config.yaml", "path to config file")
	schedule := flag.Bool("schedule", false, "stay resident and refresh on the configured cron")
	flag.Parse()

	// Local convenience; CI supplies env directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("[FATAL] load secrets: %v", err)
	}

	st := openStore(cfg, secrets)
	defer st.Close()

	src := newQuoteSource(cfg, secrets)
	log.Printf("[INFO] quote source: %s", src.Name())

	assembler := feed.New(st, src)
	run := func() {
		doc, err := assembler.Build(context.Background())
		if err != nil {
			log.Fatalf("[FATAL] build feed: %v", err)
		}
		if err := feed.WriteAtomic(cfg.Feed.OutputFile, doc); err != nil {
			log.Fatalf("[FATAL] write feed: %v", err)
		}
		log.Printf("[INFO] feed written: %d positions", doc.Summary.TotalPositions)
	}

	if !*schedule {
		run()
		return
	}

	spec := cfg.Feed.ScheduleCron
	if spec == "" {
		spec = "0 */15 * * * *"
	}
	sched := scheduler.New()
	if err := sched.Register("feed refresh", spec, run); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}

	// The calendar changes at most daily; refresh it each morning.
	gen := calendar.New(st)
	gen.PublicDays = cfg.Calendar.PublicDays
	if err := sched.Register("calendar refresh", "0 0 6 * * *", func() {
		doc, err := gen.Build(context.Background())
		if err != nil {
			log.Printf("[ERROR] build calendar: %v", err)
			return
		}
		if err := feed.WriteAtomic(cfg.Calendar.OutputFile, doc); err != nil {
			log.Printf("[ERROR] write calendar: %v", err)
		}
	}); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	run()

	log.Println("[INFO] feedgen is running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
}

// openStore prefers the cloud mirror when configured; otherwise the local
// SQLite database. An unreachable store is fatal: the feed must never be
// generated from nothing.
func openStore(cfg *config.Config, secrets *config.Secrets) store.Reader {
	if secrets.HasSupabase() {
		log.Println("[INFO] position store: supabase")
		return store.NewSupabaseStore(secrets.SupabaseURL, secrets.SupabaseKey,
			time.Duration(cfg.Schwab.TimeoutSeconds)*time.Second)
	}
	st, err := store.OpenSQLite(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open position store: %v", err)
	}
	return st
}

func newQuoteSource(cfg *config.Config, secrets *config.Secrets) quote.Source {
	if !secrets.HasSchwab() {
		log.Println("[WARN] no market-data credentials, feed will use fallback prices")
		return quote.NewNoopSource()
	}
	var tokens quote.TokenStore
	if _, err := os.Stat(cfg.Schwab.TokenFile); err == nil {
		tokens = &quote.FileTokenStore{Path: cfg.Schwab.TokenFile}
	} else {
		tokens = &quote.EnvTokenStore{RefreshToken: secrets.SchwabRefreshToken}
	}
	return quote.NewSchwabClient(quote.SchwabConfig{
		Credentials: quote.Credentials{
			AppKey:    secrets.SchwabAppKey,
			AppSecret: secrets.SchwabAppSecret,
		},
		TokenURL: cfg.Schwab.TokenURL,
		APIBase:  cfg.Schwab.APIBase,
		Tokens:   tokens,
		Timeout:  time.Duration(cfg.Schwab.TimeoutSeconds) * time.Second,
	})
}

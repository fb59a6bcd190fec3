package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jbpowers9/powersbiostrikes-web/internal/calendar"
	"github.com/jbpowers9/powersbiostrikes-web/internal/config"
	"github.com/jbpowers9/powersbiostrikes-web/internal/feed"
	"github.com/jbpowers9/powersbiostrikes-web/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] calendargen starting...")

	cfgPath := flag.String("config", "configs/config.yaml", "path to config file")
	output := flag.String("output", "", "override the calendar output path")
	days := flag.Int("days", 0, "override the public visibility window in days")
	flag.Parse()

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
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("[FATAL] load secrets: %v", err)
	}

	outputFile := cfg.Calendar.OutputFile
	if *output != "" {
		outputFile = *output
	}

	var st store.Reader
	if secrets.HasSupabase() {
		log.Println("[INFO] position store: supabase")
		st = store.NewSupabaseStore(secrets.SupabaseURL, secrets.SupabaseKey, 30*time.Second)
	} else {
		st, err = store.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] open position store: %v", err)
		}
	}
	defer st.Close()

	gen := calendar.New(st)
	gen.PublicDays = cfg.Calendar.PublicDays
	if *days > 0 {
		gen.PublicDays = *days
	}

	doc, err := gen.Build(context.Background())
	if err != nil {
		log.Fatalf("[FATAL] build calendar: %v", err)
	}
	if err := feed.WriteAtomic(outputFile, doc); err != nil {
		log.Fatalf("[FATAL] write calendar: %v", err)
	}
	log.Printf("[INFO] calendar written: %d catalysts", doc.Summary.TotalCatalysts)
}

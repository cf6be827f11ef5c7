package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "", "Path to client directory (default: ../client)")
	dbPath := flag.String("db", "wakerunner.db", "SQLite run store (empty disables persistence)")
	configPath := flag.String("config", "", "Tuning overrides YAML (merged over the built-in defaults)")
	dumpConfig := flag.String("dump-config", "", "Write the effective tuning to this path and exit")
	seed := flag.Uint64("seed", 0, "Base RNG seed for sessions (0 = random)")
	runsCSV := flag.String("runs-csv", "", "Append finished runs to this CSV file")
	flag.Parse()

	cfg, err := LoadTuning(*configPath)
	if err != nil {
		log.Fatalf("Load tuning: %v", err)
	}
	if *dumpConfig != "" {
		if err := cfg.WriteYAML(*dumpConfig); err != nil {
			log.Fatalf("Write tuning: %v", err)
		}
		log.Printf("Tuning written to %s", *dumpConfig)
		return
	}

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
	}

	var db *DB
	if *dbPath != "" {
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("Open database: %v", err)
		}
		defer db.Close()
	}
	analytics := NewAnalytics(db)
	defer analytics.Stop()

	runLog, err := OpenRunLog(*runsCSV)
	if err != nil {
		log.Fatalf("Open run log: %v", err)
	}
	defer runLog.Close()

	hub := NewHub(cfg, HubOptions{DB: db, Analytics: analytics, RunLog: runLog, Seed: *seed})
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *clientDir)
		if db != nil {
			log.Printf("Recording runs to %s", *dbPath)
		}
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
}

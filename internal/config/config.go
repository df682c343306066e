package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	MediaDir     string
	LogFile      string
	SeedFile     string // optional YAML catalog seed
	SnapshotFile string // suggestion index snapshot (msgpack)
}

func Load() Config {
	// Local development convenience; missing .env is not an error.
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "dressmarket.db" // sqlite file in project root
	}
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./dressmarket.log"
	}
	seed := os.Getenv("SEED_FILE") // empty = builtin seed data only
	snap := os.Getenv("SNAPSHOT_FILE")
	if snap == "" {
		snap = "./suggestions.bin"
	}

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile, SeedFile: seed, SnapshotFile: snap}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s SEED_FILE=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.SeedFile)
	return cfg
}

package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"battle-features/internal/config"
	"battle-features/internal/pipeline"
	"battle-features/internal/server"
	"battle-features/internal/storage"
)

func main() {
	if path := config.LoadDotEnv(); path != "" {
		fmt.Printf("Loaded .env from: %s\n", path)
	} else {
		log.Println("No .env file found, using environment variables")
	}

	settings, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if settings.PresetsFile != "" {
		if _, err := config.RegisterPresetFile(settings.PresetsFile); err != nil {
			log.Fatalf("Failed to load presets: %v", err)
		}
	}
	if _, err := settings.ResolvePreset(""); err != nil {
		log.Fatalf("Default preset unavailable: %v", err)
	}

	var rotator *storage.FileRotator
	if settings.StoragePath != "" {
		rotator, err = storage.NewFileRotator(settings.StoragePath, storage.DefaultMaxBattlesPerFile, storage.DefaultMaxFileAge)
		if err != nil {
			log.Fatalf("Failed to create file rotator: %v", err)
		}
		fmt.Printf("Ingesting battles into: %s\n", filepath.Join(settings.StoragePath, "hot"))
	} else {
		log.Println("BATTLE_STORAGE_PATH not set, ingest disabled")
	}

	srv := server.New(server.Config{
		Port:    settings.Port,
		Workers: settings.Workers,
		Resolve: settings.ResolvePreset,
		Rotator: rotator,
	})

	pipeline.SetupSignalHandler(context.Background(), "Server", func(ctx context.Context) {
		if err := srv.Stop(ctx); err != nil {
			log.Printf("[Server] Shutdown error: %v", err)
		}
	})

	fmt.Printf("Server starting on http://localhost:%s\n", settings.Port)
	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}

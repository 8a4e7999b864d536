package main

import (
	"path/filepath"
	"testing"

	"typerace/config"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestInitializeServices(t *testing.T) {
	cfg := config.Env{
		Host:             "localhost",
		Port:             8080,
		DatabasePath:     filepath.Join(t.TempDir(), "typerace.db"),
		JWTSecret:        "test-secret",
		CountdownSeconds: 3,
	}

	svcs, err := initializeServices(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.store.Close()

	if svcs.race == nil || svcs.tokens == nil || svcs.registry == nil {
		t.Error("Expected all services to be initialized")
	}
}

func TestBuildServer(t *testing.T) {
	cfg := config.Env{
		Host:             "localhost",
		Port:             8080,
		DatabasePath:     filepath.Join(t.TempDir(), "typerace.db"),
		JWTSecret:        "test-secret",
		CountdownSeconds: 3,
	}

	svcs, err := initializeServices(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.store.Close()

	if buildServer(svcs) == nil {
		t.Fatal("Expected API server to be built")
	}
}

// Note: main(), runHTTPServer() and runStdioMCPWithInternalServer() start
// servers and block; their endpoints are exercised in the api package tests.

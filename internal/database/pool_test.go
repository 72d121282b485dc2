package database

import (
	"context"
	"testing"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/models"

	"gorm.io/gorm/logger"
)

func memoryConfig() *PoolConfig {
	config := DefaultPoolConfig()
	config.DSN = ":memory:"
	config.LogLevel = logger.Silent
	return config
}

func TestDefaultPoolConfig(t *testing.T) {
	config := DefaultPoolConfig()

	if config.Driver != "sqlite" {
		t.Errorf("Expected Driver to be sqlite, got %s", config.Driver)
	}

	if config.MaxOpenConns != 25 {
		t.Errorf("Expected MaxOpenConns to be 25, got %d", config.MaxOpenConns)
	}

	if config.ConnMaxIdleTime != time.Minute*30 {
		t.Errorf("Expected ConnMaxIdleTime to be 30 minutes, got %v", config.ConnMaxIdleTime)
	}

	if config.LogLevel != logger.Warn {
		t.Errorf("Expected LogLevel to be Warn, got %v", config.LogLevel)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"silent":  logger.Silent,
		"ERROR":   logger.Error,
		"info":    logger.Info,
		"warn":    logger.Warn,
		"unknown": logger.Warn,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewDatabasePool_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PoolConfig)
	}{
		{"empty DSN", func(c *PoolConfig) { c.DSN = "" }},
		{"unknown driver", func(c *PoolConfig) { c.Driver = "mysql" }},
		{"negative pool", func(c *PoolConfig) { c.MaxOpenConns = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := memoryConfig()
			tt.mutate(config)
			if _, err := NewDatabasePool(config); err == nil {
				t.Error("Expected error but pool creation succeeded")
			}
		})
	}
}

func TestNewDatabasePool_SQLiteMigrate(t *testing.T) {
	pool, err := NewDatabasePool(memoryConfig())
	if err != nil {
		t.Fatalf("Expected sqlite pool, got %v", err)
	}
	defer pool.Close()

	if err := pool.Migrate(); err != nil {
		t.Fatalf("Expected migration to succeed, got %v", err)
	}

	task := models.Task{ID: "a1", Title: "Ship", Status: models.StatusPending, Priority: models.PriorityHigh, Tags: []string{"x", "y"}}
	if err := pool.Create(&task).Error; err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}

	var loaded models.Task
	if err := pool.First(&loaded, "id = ?", "a1").Error; err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded.Tags) != 2 || loaded.Tags[1] != "y" {
		t.Errorf("Expected tags to round trip, got %v", loaded.Tags)
	}

	if err := pool.Health(context.Background()); err != nil {
		t.Errorf("Expected healthy pool, got %v", err)
	}
	if stats := pool.Stats(); stats["max_open_connections"] != 1 {
		t.Errorf("Expected sqlite pool capped at one connection, got %v", stats["max_open_connections"])
	}
}

func TestDatabasePool_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{DB: nil, config: &PoolConfig{}}

	if _, hasError := pool.Stats()["error"]; !hasError {
		t.Error("Expected error in stats when DB is nil")
	}
	if err := pool.Health(context.Background()); err == nil {
		t.Error("Expected error when checking health with nil DB")
	}
	if err := pool.Migrate(); err == nil {
		t.Error("Expected error when migrating with nil DB")
	}
	if err := pool.Close(); err != nil {
		t.Errorf("Expected no error when closing nil DB, got: %v", err)
	}
}

/*
 *  Copyright (c) 2026, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package config

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Server holds the configuration parameters for the application.
type Server struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"DEBUG"`

	// Server configurations
	Port string `envconfig:"PORT" default:"9444"`

	// Database configurations
	Database     Database `envconfig:"DATABASE"`
	DBSchemaPath string   `envconfig:"DB_SCHEMA_PATH" default:"./internal/database/schema.sql"`

	// Per-environment policy defaults seeded into new policy records
	PolicyDefaultsPath string `envconfig:"POLICY_DEFAULTS_PATH" default:"./resources/default-policy-settings.yaml"`

	// JWT Authentication configurations
	JWT JWT `envconfig:"JWT"`

	// Key lifecycle configurations
	Keys Keys `envconfig:"KEYS"`

	// WebSocket configurations
	WebSocket WebSocket `envconfig:"WEBSOCKET"`

	// TLS configurations
	TLS TLS `envconfig:"TLS"`
}

// TLS holds TLS certificate configuration
type TLS struct {
	CertDir string `envconfig:"CERT_DIR" default:"./data/certs"`
}

// JWT holds JWT-specific configuration
type JWT struct {
	SecretKey      string   `envconfig:"SECRET_KEY" default:"your-secret-key-change-in-production"`
	Issuer         string   `envconfig:"ISSUER" default:"thunder"`
	SkipPaths      []string `envconfig:"SKIP_PATHS" default:"/health"`
	SkipValidation bool     `envconfig:"SKIP_VALIDATION" default:"true"` // Skip signature validation for development
}

// Keys holds credential lifecycle configuration.
// RotationGraceDays is how long a rotated-out key stays valid alongside its
// replacement. RetentionDays is how long a terminal-state record is kept
// before the TTL sweep may delete the row.
type Keys struct {
	RotationGraceDays  int `envconfig:"ROTATION_GRACE_DAYS" default:"7"`
	RetentionDays      int `envconfig:"RETENTION_DAYS" default:"30"`
	SweepIntervalHours int `envconfig:"SWEEP_INTERVAL_HOURS" default:"6"`
}

// WebSocket holds WebSocket-specific configuration for the console event stream
type WebSocket struct {
	MaxConnections    int `envconfig:"WS_MAX_CONNECTIONS" default:"500"`
	ConnectionTimeout int `envconfig:"WS_CONNECTION_TIMEOUT" default:"30"` // seconds
	RateLimitPerMin   int `envconfig:"WS_RATE_LIMIT_PER_MINUTE" default:"10"`
}

// Database holds database-specific configuration
type Database struct {
	Driver string `envconfig:"DRIVER" default:"sqlite3"`
	// Path is the file path for SQLite databases.
	// Use DATABASE_DB_PATH to override; keeping it distinct from the OS PATH variable.
	Path            string `envconfig:"DB_PATH" default:"./data/console_api.db"`
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            int    `envconfig:"PORT" default:"5432"`
	Name            string `envconfig:"NAME" default:"console_api"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	SSLMode         string `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME" default:"300"` // seconds

	// ExecuteSchemaDDL controls whether to run the schema DDL (CREATE TABLE, etc.) on startup.
	// Set to false when the DB user lacks DDL privileges (e.g. deployed Postgres with restricted role).
	// Env: DATABASE_EXECUTE_SCHEMA_DDL (default: true)
	ExecuteSchemaDDL bool `envconfig:"EXECUTE_SCHEMA_DDL" default:"true"`
}

// package-level variable and mutex for thread safety
var (
	processOnce     sync.Once
	settingInstance *Server
)

// GetConfig initializes and returns a singleton instance of the Server struct.
// It uses sync.Once to ensure that the initialization logic is executed only once,
// making it safe for concurrent use. If there is an error during the initialization,
// the function will panic.
func GetConfig() *Server {
	var err error
	processOnce.Do(func() {
		settingInstance = &Server{}
		err = envconfig.Process("", settingInstance)
		if err == nil {
			err = validateKeyConfig(&settingInstance.Keys)
		}
	})
	if err != nil {
		panic(err)
	}
	return settingInstance
}

// validateKeyConfig validates credential lifecycle configuration
func validateKeyConfig(cfg *Keys) error {
	if cfg.RotationGraceDays <= 0 {
		return fmt.Errorf("KEYS_ROTATION_GRACE_DAYS must be positive, got %d", cfg.RotationGraceDays)
	}
	if cfg.RetentionDays <= 0 {
		return fmt.Errorf("KEYS_RETENTION_DAYS must be positive, got %d", cfg.RetentionDays)
	}
	if cfg.SweepIntervalHours <= 0 {
		return fmt.Errorf("KEYS_SWEEP_INTERVAL_HOURS must be positive, got %d", cfg.SweepIntervalHours)
	}
	return nil
}

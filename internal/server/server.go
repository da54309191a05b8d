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

package server

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"log"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"console-api/config"
	"console-api/internal/database"
	"console-api/internal/handler"
	"console-api/internal/middleware"
	"console-api/internal/repository"
	"console-api/internal/service"
	"console-api/internal/utils"
	"console-api/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router    *gin.Engine
	lifecycle *service.KeyLifecycleService
	hub       *websocket.Hub

	sweepInterval time.Duration
	sweepCancel   context.CancelFunc
}

// StartConsoleAPIServer creates a new server instance with all dependencies
// initialized.
func StartConsoleAPIServer(cfg *config.Server) (*Server, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Initialize schema (skip when ExecuteSchemaDDL is false, e.g. deployed
	// Postgres without DDL access)
	if cfg.Database.ExecuteSchemaDDL {
		if err := db.InitSchema(cfg.DBSchemaPath); err != nil {
			return nil, err
		}
	} else {
		log.Printf("Skipping schema DDL execution (DATABASE_EXECUTE_SCHEMA_DDL=false)\n")
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepo(db)
	appRepo := repository.NewApplicationRepo(db)
	credRepo := repository.NewCredentialRepo(db)
	policyRepo := repository.NewPolicyRepo(db)

	// Load per-environment policy defaults
	policyDefaults, err := utils.LoadPolicyDefaults(cfg.PolicyDefaultsPath)
	if err != nil {
		utils.LogWarning(fmt.Sprintf("Failed to load policy defaults from %s: %v", cfg.PolicyDefaultsPath, err))
		policyDefaults = map[string]utils.PolicyDefaults{}
	}

	// Initialize the console event hub
	hub := websocket.NewHub(websocket.HubConfig{
		MaxSessions:       cfg.WebSocket.MaxConnections,
		HeartbeatInterval: 20 * time.Second,
		HeartbeatTimeout:  time.Duration(cfg.WebSocket.ConnectionTimeout) * time.Second,
	})

	// Initialize services
	eventService := service.NewEventService(hub)
	lifecycleService := service.NewKeyLifecycleService(credRepo, appRepo, eventService,
		cfg.Keys.RotationGraceDays, cfg.Keys.RetentionDays)
	cascadeService := service.NewCascadeService(lifecycleService, credRepo, appRepo, eventService)
	projectionService := service.NewProjectionService(credRepo, appRepo, policyRepo)
	policyService := service.NewPolicyService(policyRepo, appRepo, eventService, policyDefaults)
	orgService := service.NewOrganizationService(orgRepo)
	appService := service.NewApplicationService(appRepo, orgRepo)

	// Initialize handlers
	orgHandler := handler.NewOrganizationHandler(orgService)
	appHandler := handler.NewApplicationHandler(appService)
	keyHandler := handler.NewKeyHandler(lifecycleService, cascadeService, projectionService)
	policyHandler := handler.NewPolicyHandler(policyService)
	wsHandler := handler.NewWebSocketHandler(hub)

	// Setup router
	router := gin.Default()

	// Configure and apply CORS middleware first (before auth middleware)
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Configure and apply JWT authentication middleware
	authConfig := middleware.AuthConfig{
		SecretKey:      cfg.JWT.SecretKey,
		TokenIssuer:    cfg.JWT.Issuer,
		SkipPaths:      cfg.JWT.SkipPaths,
		SkipValidation: cfg.JWT.SkipValidation,
	}
	router.Use(middleware.AuthMiddleware(authConfig))

	// Register routes
	orgHandler.RegisterRoutes(router)
	appHandler.RegisterRoutes(router)
	keyHandler.RegisterRoutes(router)
	policyHandler.RegisterRoutes(router)
	wsHandler.RegisterRoutes(router)

	utils.LogInfo(fmt.Sprintf("Console event hub initialized: maxSessions=%d heartbeatTimeout=%ds",
		cfg.WebSocket.MaxConnections, cfg.WebSocket.ConnectionTimeout))

	return &Server{
		router:        router,
		lifecycle:     lifecycleService,
		hub:           hub,
		sweepInterval: time.Duration(cfg.Keys.SweepIntervalHours) * time.Hour,
	}, nil
}

// startSweeper runs the credential TTL sweep on a fixed interval until the
// server shuts down. Expiry itself is computed lazily on read; the sweep
// only finalizes statuses and deletes rows past retention.
func (s *Server) startSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	go func() {
		defer ticker.Stop()
		s.lifecycle.SweepExpired(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.lifecycle.SweepExpired(ctx)
			}
		}
	}()
}

// generateSelfSignedCert creates a self-signed certificate for development
// and saves it to disk.
func generateSelfSignedCert(certPath, keyPath string) (tls.Certificate, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Console API Dev"},
			Country:      []string{"US"},
		},
		NotBefore:   time.Now(),
		NotAfter:    time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:    x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:    []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	if err := os.WriteFile(certPath, certPEM, 0644); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to save certificate: %v", err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to save private key: %v", err)
	}
	log.Printf("Saved certificate to %s and key to %s", certPath, keyPath)

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, err
	}
	return cert, nil
}

// Start starts the HTTPS server and the background TTL sweeper
func (s *Server) Start(port string, certDir string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}

	certPath := filepath.Join(certDir, "cert.pem")
	keyPath := filepath.Join(certDir, "key.pem")

	var cert tls.Certificate

	// Try to load existing certificates first
	if _, certErr := os.Stat(certPath); certErr == nil {
		if _, keyErr := os.Stat(keyPath); keyErr == nil {
			loadedCert, err := tls.LoadX509KeyPair(certPath, keyPath)
			if err != nil {
				log.Printf("Failed to load certificates: %v", err)
			} else {
				log.Printf("Using existing certificates from %s", certDir)
				cert = loadedCert
			}
		}
	}

	if cert.Certificate == nil {
		log.Println("Generating self-signed certificate for development...")
		if err := os.MkdirAll(certDir, 0755); err != nil {
			return fmt.Errorf("failed to create cert directory: %v", err)
		}
		generatedCert, err := generateSelfSignedCert(certPath, keyPath)
		if err != nil {
			return fmt.Errorf("failed to generate self-signed certificate: %v", err)
		}
		cert = generatedCert
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	sweepCtx, cancel := context.WithCancel(context.Background())
	s.sweepCancel = cancel
	s.startSweeper(sweepCtx)

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	address := fmt.Sprintf(":%s", port)
	server := &http.Server{
		Addr:      address,
		Handler:   s.router,
		TLSConfig: tlsConfig,
	}

	log.Printf("Starting HTTPS server on https://localhost:%s", port)
	log.Println("Note: Using self-signed certificate for development. Browsers will show security warnings.")
	return server.ListenAndServeTLS("", "")
}

// Shutdown stops the background sweeper and closes all console sessions
func (s *Server) Shutdown() {
	if s.sweepCancel != nil {
		s.sweepCancel()
	}
	s.hub.Shutdown()
}

// GetRouter returns the gin router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

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

package websocket

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub maintains the registry of live console sessions and fans console
// events out to every session of the owning organization. The registry maps
// organization IDs to slices of sessions so that several browser tabs of the
// same organization all receive updates.
type Hub struct {
	// sessions maps organizationID -> []*Session
	sessions sync.Map

	mu           sync.RWMutex
	sessionCount int
	maxSessions  int

	heartbeatInterval time.Duration
	heartbeatTimeout  time.Duration

	shutdownCtx context.Context
	shutdownFn  context.CancelFunc

	wg sync.WaitGroup
}

// HubConfig contains configuration parameters for the console event hub
type HubConfig struct {
	MaxSessions       int           // Maximum concurrent sessions (default 1000)
	HeartbeatInterval time.Duration // Ping interval (default 20s)
	HeartbeatTimeout  time.Duration // Pong timeout (default 30s)
}

// DefaultHubConfig returns sensible default configuration values
func DefaultHubConfig() HubConfig {
	return HubConfig{
		MaxSessions:       1000,
		HeartbeatInterval: 20 * time.Second,
		HeartbeatTimeout:  30 * time.Second,
	}
}

// NewHub creates a new console event hub with the provided configuration
func NewHub(config HubConfig) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		maxSessions:       config.MaxSessions,
		heartbeatInterval: config.HeartbeatInterval,
		heartbeatTimeout:  config.HeartbeatTimeout,
		shutdownCtx:       ctx,
		shutdownFn:        cancel,
	}
}

// Register adds an upgraded connection to the registry and starts heartbeat
// monitoring. Returns an error if the session limit is reached.
func (h *Hub) Register(orgID string, conn *websocket.Conn) (*Session, error) {
	h.mu.Lock()
	if h.sessionCount >= h.maxSessions {
		h.mu.Unlock()
		return nil, fmt.Errorf("maximum session limit reached (%d)", h.maxSessions)
	}
	h.sessionCount++
	h.mu.Unlock()

	session := newSession(uuid.New().String(), orgID, conn)

	sessionsInterface, _ := h.sessions.LoadOrStore(orgID, []*Session{})
	sessions := sessionsInterface.([]*Session)
	sessions = append(sessions, session)
	h.sessions.Store(orgID, sessions)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.monitorHeartbeat(session)
	}()

	log.Printf("[INFO] Console session connected: sessionId=%s orgId=%s totalSessions=%d",
		session.ID, orgID, h.SessionCount())

	return session, nil
}

// Unregister removes a session from the registry and closes it gracefully.
// Idempotent: calling it for an already-removed session is safe.
func (h *Hub) Unregister(orgID, sessionID string) {
	sessionsInterface, ok := h.sessions.Load(orgID)
	if !ok {
		return
	}

	sessions := sessionsInterface.([]*Session)
	var remaining []*Session
	var removed *Session
	for _, session := range sessions {
		if session.ID == sessionID {
			removed = session
		} else {
			remaining = append(remaining, session)
		}
	}
	if removed == nil {
		return
	}

	if len(remaining) == 0 {
		h.sessions.Delete(orgID)
	} else {
		h.sessions.Store(orgID, remaining)
	}

	if err := removed.Close(websocket.CloseNormalClosure, "normal closure"); err != nil {
		log.Printf("[ERROR] Failed to close session: sessionId=%s error=%v", sessionID, err)
	}

	h.mu.Lock()
	h.sessionCount--
	h.mu.Unlock()

	log.Printf("[INFO] Console session disconnected: sessionId=%s orgId=%s totalSessions=%d",
		sessionID, orgID, h.SessionCount())
}

// Broadcast delivers a JSON payload to every session of the organization.
// Sessions that fail to send are unregistered; delivery is best effort.
func (h *Hub) Broadcast(orgID string, payload interface{}) {
	sessionsInterface, ok := h.sessions.Load(orgID)
	if !ok {
		return
	}

	for _, session := range sessionsInterface.([]*Session) {
		if err := session.SendJSON(payload); err != nil {
			log.Printf("[WARN] Failed to deliver event, dropping session: sessionId=%s error=%v",
				session.ID, err)
			h.Unregister(orgID, session.ID)
		}
	}
}

// SessionCount returns the total number of active sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessionCount
}

// monitorHeartbeat periodically pings the session and disconnects it when no
// pong arrives within the timeout. Runs in a background goroutine per session.
func (h *Hub) monitorHeartbeat(session *Session) {
	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	session.enablePongHandler()

	for {
		select {
		case <-h.shutdownCtx.Done():
			return

		case <-ticker.C:
			if session.IsClosed() {
				return
			}
			if time.Since(session.LastHeartbeat()) > h.heartbeatTimeout {
				log.Printf("[WARN] Heartbeat timeout detected: sessionId=%s lastHeartbeat=%v",
					session.ID, session.LastHeartbeat())
				h.Unregister(session.OrganizationID, session.ID)
				return
			}
			if err := session.SendPing(); err != nil {
				log.Printf("[ERROR] Failed to send ping: sessionId=%s error=%v", session.ID, err)
				h.Unregister(session.OrganizationID, session.ID)
				return
			}
		}
	}
}

// Shutdown gracefully closes all sessions and stops heartbeat monitoring.
// Waits for all monitoring goroutines to exit before returning.
func (h *Hub) Shutdown() {
	log.Println("[INFO] Shutting down console event hub...")

	h.shutdownFn()

	h.sessions.Range(func(key, value interface{}) bool {
		for _, session := range value.([]*Session) {
			if err := session.Close(websocket.CloseNormalClosure, "server shutdown"); err != nil {
				log.Printf("[ERROR] Failed to close session during shutdown: sessionId=%s error=%v",
					session.ID, err)
			}
		}
		return true
	})

	h.wg.Wait()

	log.Println("[INFO] Console event hub shutdown complete")
}

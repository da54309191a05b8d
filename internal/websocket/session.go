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
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// Session represents a single console WebSocket connection owned by an
// organization. Writes are serialized through writeMu because gorilla
// connections allow only one concurrent writer.
type Session struct {
	ID             string
	OrganizationID string
	ConnectedAt    time.Time

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu            sync.RWMutex
	lastHeartbeat time.Time
	closed        bool
}

func newSession(id, orgID string, conn *websocket.Conn) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		OrganizationID: orgID,
		ConnectedAt:    now,
		conn:           conn,
		lastHeartbeat:  now,
	}
}

// SendJSON marshals and delivers a payload as a single text frame
func (s *Session) SendJSON(payload interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(payload)
}

// SendPing sends a ping control frame
func (s *Session) SendPing() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// enablePongHandler records incoming pongs as heartbeat activity
func (s *Session) enablePongHandler() {
	s.conn.SetPongHandler(func(appData string) error {
		s.mu.Lock()
		s.lastHeartbeat = time.Now()
		s.mu.Unlock()
		return nil
	})
}

// LastHeartbeat returns the time of the most recent pong
func (s *Session) LastHeartbeat() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastHeartbeat
}

// IsClosed reports whether the session has been closed
func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close sends a close frame and tears down the underlying connection.
// Safe to call more than once.
func (s *Session) Close(code int, reason string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.writeMu.Lock()
	message := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeTimeout))
	s.writeMu.Unlock()

	return s.conn.Close()
}

// ReadLoop consumes inbound frames until the peer disconnects. Console
// sessions are delivery-only, so payloads are discarded; reading is still
// required for control frames (pongs, client close) to be processed.
func (s *Session) ReadLoop() {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

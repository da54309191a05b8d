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

package service

import (
	"time"

	"console-api/internal/model"
	"console-api/internal/websocket"

	"github.com/google/uuid"
)

// EventService publishes console events to the WebSocket hub so that open
// console sessions refresh without polling. Publishing is fire-and-forget:
// a failed or absent session never affects the originating operation.
type EventService struct {
	hub *websocket.Hub
}

// NewEventService creates a new event service backed by the given hub
func NewEventService(hub *websocket.Hub) *EventService {
	return &EventService{hub: hub}
}

// Hub exposes the underlying hub for session registration
func (s *EventService) Hub() *websocket.Hub {
	return s.hub
}

// PublishKeyEvent broadcasts a credential lifecycle event to the owning
// organization. Only the masked prefix is ever published.
func (s *EventService) PublishKeyEvent(eventType string, cred *model.Credential) {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.Broadcast(cred.OrganizationID, &model.ConsoleEvent{
		ID:             uuid.New().String(),
		Type:           eventType,
		OrganizationID: cred.OrganizationID,
		ApplicationID:  cred.ApplicationID,
		Environment:    cred.Environment,
		CredentialID:   cred.ID,
		KeyPrefix:      cred.KeyPrefix,
		Timestamp:      time.Now(),
	})
}

// PublishEnvironmentEvent broadcasts a policy or environment scoped event
func (s *EventService) PublishEnvironmentEvent(eventType, orgID, appID, environment string) {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.Broadcast(orgID, &model.ConsoleEvent{
		ID:             uuid.New().String(),
		Type:           eventType,
		OrganizationID: orgID,
		ApplicationID:  appID,
		Environment:    environment,
		Timestamp:      time.Now(),
	})
}

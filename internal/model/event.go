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

package model

import (
	"time"
)

// ConsoleEvent is pushed to connected admin sessions over the websocket
// event stream whenever a key or policy mutation succeeds. Secrets never
// appear in events; only prefix and metadata are carried.
type ConsoleEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	OrganizationID string    `json:"organizationId"`
	ApplicationID  string    `json:"applicationId"`
	Environment    string    `json:"environment,omitempty"`
	CredentialID   string    `json:"credentialId,omitempty"`
	KeyPrefix      string    `json:"keyPrefix,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

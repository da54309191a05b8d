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

package dto

// KeysView is the display-ready projection of an application's credentials
// and policies, grouped per selected environment in fixed priority order.
type KeysView struct {
	ApplicationID string              `json:"applicationId"`
	Environments  []*EnvironmentGroup `json:"environments"`
}

// EnvironmentGroup is one row-group in the keys view. Rows are ordered
// Active, Rotating, Revoked, Expired by effective status; an environment
// with no credential renders a single placeholder row.
type EnvironmentGroup struct {
	Environment string    `json:"environment"`
	Rows        []*KeyRow `json:"rows"`
	IssueCount  int       `json:"issueCount"`
}

// KeyRow is one display row. Placeholder is set on the synthetic "no key"
// row emitted for environments without a credential.
type KeyRow struct {
	CredentialID string `json:"credentialId,omitempty"`
	KeyPrefix    string `json:"keyPrefix,omitempty"`
	KeyType      string `json:"keyType,omitempty"`
	// Status is the effective status, recomputed from the persisted status
	// and expiresAt at projection time.
	Status       string `json:"status,omitempty"`
	ActivityText string `json:"activityText"`
	BadgeClass   string `json:"badgeClass,omitempty"`
	IsMuted      bool   `json:"isMuted"`
	Placeholder  bool   `json:"placeholder,omitempty"`
}

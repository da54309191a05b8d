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

// Credential represents an issued API key record. The full secret is never
// stored; only the one-way hash and the displayable prefix persist.
// Field names on the wire must stay stable for compatibility with existing
// stored data.
type Credential struct {
	ID             string `json:"id" db:"uuid"`
	ApplicationID  string `json:"applicationId" db:"application_uuid"`   // FK to Application.ID
	OrganizationID string `json:"organizationId" db:"organization_uuid"` // FK to Organization.ID
	Environment    string `json:"environment" db:"environment"`
	KeyPrefix      string `json:"keyPrefix" db:"key_prefix"`
	KeyHash        string `json:"-" db:"key_hash"`
	KeyType        string `json:"keyType" db:"key_type"`
	Status         string `json:"status" db:"status"` // ACTIVE | ROTATING | REVOKED | EXPIRED | UNKNOWN

	ActivatesAt *time.Time `json:"activatesAt,omitempty" db:"activates_at"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	RevokedAt   *time.Time `json:"revokedAt,omitempty" db:"revoked_at"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty" db:"last_used_at"`

	// TTL is an absolute epoch time after which the backing store may
	// garbage-collect the record. Set only once the record reaches a
	// terminal state; zero means no scheduled deletion.
	TTL int64 `json:"ttl,omitempty" db:"ttl"`

	// Revision guards conditional writes; incremented on every update.
	Revision int64 `json:"-" db:"revision"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the Credential model
func (Credential) TableName() string {
	return "credentials"
}

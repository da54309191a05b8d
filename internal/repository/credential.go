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

package repository

import (
	"database/sql"
	"errors"
	"time"

	"console-api/internal/constants"
	"console-api/internal/database"
	"console-api/internal/model"
)

// CredentialRepo implements CredentialRepository
type CredentialRepo struct {
	db *database.DB
}

// NewCredentialRepo creates a new credential repository
func NewCredentialRepo(db *database.DB) CredentialRepository {
	return &CredentialRepo{db: db}
}

const credentialColumns = `uuid, application_uuid, organization_uuid, environment, key_prefix, key_hash,
		key_type, status, activates_at, expires_at, revoked_at, last_used_at, ttl, revision, created_at, updated_at`

// CreateCredential inserts a new credential record
func (r *CredentialRepo) CreateCredential(cred *model.Credential) error {
	cred.CreatedAt = time.Now()
	cred.UpdatedAt = time.Now()
	cred.Revision = 1

	query := `
		INSERT INTO credentials (` + credentialColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.Rebind(query),
		cred.ID, cred.ApplicationID, cred.OrganizationID, cred.Environment,
		cred.KeyPrefix, cred.KeyHash, cred.KeyType, cred.Status,
		nullTime(cred.ActivatesAt), nullTime(cred.ExpiresAt), nullTime(cred.RevokedAt), nullTime(cred.LastUsedAt),
		cred.TTL, cred.Revision, cred.CreatedAt, cred.UpdatedAt)

	return err
}

// GetCredentialByUUID retrieves a credential by ID within an organization
func (r *CredentialRepo) GetCredentialByUUID(uuid, orgID string) (*model.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE uuid = ? AND organization_uuid = ?
	`
	cred, err := scanCredential(r.db.QueryRow(r.db.Rebind(query), uuid, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cred, nil
}

// GetCredentialsByApplication retrieves all credentials for an application,
// newest first
func (r *CredentialRepo) GetCredentialsByApplication(appID, orgID string) ([]*model.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE application_uuid = ? AND organization_uuid = ?
		ORDER BY created_at DESC
	`
	return r.queryCredentials(query, appID, orgID)
}

// GetCredentialsByEnvironment retrieves all credentials for one
// (application, environment) key, newest first
func (r *CredentialRepo) GetCredentialsByEnvironment(appID, orgID, environment string) ([]*model.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE application_uuid = ? AND organization_uuid = ? AND environment = ?
		ORDER BY created_at DESC
	`
	return r.queryCredentials(query, appID, orgID, environment)
}

// UpdateCredential performs a conditional write guarded by the record's
// revision. A stale revision means another writer got there first; the
// conflict sentinel is returned so the caller can re-fetch and retry.
func (r *CredentialRepo) UpdateCredential(cred *model.Credential) error {
	cred.UpdatedAt = time.Now()

	query := `
		UPDATE credentials
		SET status = ?, activates_at = ?, expires_at = ?, revoked_at = ?, last_used_at = ?,
		    ttl = ?, revision = revision + 1, updated_at = ?
		WHERE uuid = ? AND organization_uuid = ? AND revision = ?
	`
	result, err := r.db.Exec(r.db.Rebind(query),
		cred.Status, nullTime(cred.ActivatesAt), nullTime(cred.ExpiresAt), nullTime(cred.RevokedAt),
		nullTime(cred.LastUsedAt), cred.TTL, cred.UpdatedAt,
		cred.ID, cred.OrganizationID, cred.Revision)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return constants.ErrConflict
	}

	cred.Revision++
	return nil
}

// GetExpiredRotating retrieves rotating credentials whose grace window has
// elapsed. The sweeper finalizes these to EXPIRED and schedules their ttl.
func (r *CredentialRepo) GetExpiredRotating(now time.Time) ([]*model.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE status = ? AND expires_at IS NOT NULL AND expires_at < ?
	`
	return r.queryCredentials(query, constants.KeyStatusRotating, now)
}

// DeleteExpired physically removes terminal-state records whose ttl has
// elapsed. Returns the number of deleted rows.
func (r *CredentialRepo) DeleteExpired(now time.Time) (int64, error) {
	query := `DELETE FROM credentials WHERE ttl > 0 AND ttl < ?`
	result, err := r.db.Exec(r.db.Rebind(query), now.Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *CredentialRepo) queryCredentials(query string, args ...interface{}) ([]*model.Credential, error) {
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credentials []*model.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, cred)
	}

	return credentials, rows.Err()
}

func scanCredential(row rowScanner) (*model.Credential, error) {
	cred := &model.Credential{}
	var activatesAt, expiresAt, revokedAt, lastUsedAt sql.NullTime

	err := row.Scan(&cred.ID, &cred.ApplicationID, &cred.OrganizationID, &cred.Environment,
		&cred.KeyPrefix, &cred.KeyHash, &cred.KeyType, &cred.Status,
		&activatesAt, &expiresAt, &revokedAt, &lastUsedAt,
		&cred.TTL, &cred.Revision, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		return nil, err
	}

	cred.ActivatesAt = timePtr(activatesAt)
	cred.ExpiresAt = timePtr(expiresAt)
	cred.RevokedAt = timePtr(revokedAt)
	cred.LastUsedAt = timePtr(lastUsedAt)
	return cred, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

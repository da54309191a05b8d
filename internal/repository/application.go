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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"console-api/internal/database"
	"console-api/internal/model"
)

// ApplicationRepo implements ApplicationRepository
type ApplicationRepo struct {
	db *database.DB
}

// NewApplicationRepo creates a new application repository
func NewApplicationRepo(db *database.DB) ApplicationRepository {
	return &ApplicationRepo{db: db}
}

// CreateApplication inserts a new application
func (r *ApplicationRepo) CreateApplication(app *model.Application) error {
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()

	environments, err := marshalStringSlice(app.Environments)
	if err != nil {
		return fmt.Errorf("failed to marshal environments: %w", err)
	}

	query := `
		INSERT INTO applications (uuid, handle, name, description, organization_uuid, environments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(r.db.Rebind(query), app.ID, app.Handle, app.Name, app.Description,
		app.OrganizationID, environments, app.CreatedAt, app.UpdatedAt)

	return err
}

// GetApplicationByUUID retrieves an application by ID within an organization
func (r *ApplicationRepo) GetApplicationByUUID(uuid, orgID string) (*model.Application, error) {
	query := `
		SELECT uuid, handle, name, description, organization_uuid, environments, created_at, updated_at
		FROM applications
		WHERE uuid = ? AND organization_uuid = ?
	`
	return r.scanApplication(r.db.QueryRow(r.db.Rebind(query), uuid, orgID))
}

// GetApplicationByHandle retrieves an application by handle within an organization
func (r *ApplicationRepo) GetApplicationByHandle(handle, orgID string) (*model.Application, error) {
	query := `
		SELECT uuid, handle, name, description, organization_uuid, environments, created_at, updated_at
		FROM applications
		WHERE handle = ? AND organization_uuid = ?
	`
	return r.scanApplication(r.db.QueryRow(r.db.Rebind(query), handle, orgID))
}

// UpdateApplication modifies an existing application
func (r *ApplicationRepo) UpdateApplication(app *model.Application) error {
	app.UpdatedAt = time.Now()

	environments, err := marshalStringSlice(app.Environments)
	if err != nil {
		return fmt.Errorf("failed to marshal environments: %w", err)
	}

	query := `
		UPDATE applications
		SET handle = ?, name = ?, description = ?, environments = ?, updated_at = ?
		WHERE uuid = ? AND organization_uuid = ?
	`
	_, err = r.db.Exec(r.db.Rebind(query), app.Handle, app.Name, app.Description,
		environments, app.UpdatedAt, app.ID, app.OrganizationID)

	return err
}

// DeleteApplication removes an application
func (r *ApplicationRepo) DeleteApplication(uuid, orgID string) error {
	query := `DELETE FROM applications WHERE uuid = ? AND organization_uuid = ?`
	_, err := r.db.Exec(r.db.Rebind(query), uuid, orgID)
	return err
}

// ListApplications retrieves applications for an organization with pagination
func (r *ApplicationRepo) ListApplications(orgID string, limit, offset int) ([]*model.Application, error) {
	query := `
		SELECT uuid, handle, name, description, organization_uuid, environments, created_at, updated_at
		FROM applications
		WHERE organization_uuid = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.Query(r.db.Rebind(query), orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []*model.Application
	for rows.Next() {
		app, err := r.scanApplicationRow(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}

	return applications, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ApplicationRepo) scanApplication(row *sql.Row) (*model.Application, error) {
	app, err := r.scanApplicationRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepo) scanApplicationRow(row rowScanner) (*model.Application, error) {
	app := &model.Application{}
	var description sql.NullString
	var environments string

	err := row.Scan(&app.ID, &app.Handle, &app.Name, &description,
		&app.OrganizationID, &environments, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}

	app.Description = description.String
	if err := json.Unmarshal([]byte(environments), &app.Environments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environments for application %s: %w", app.ID, err)
	}
	return app, nil
}

// marshalStringSlice serializes a string slice into its JSON column form,
// normalizing nil to an empty array.
func marshalStringSlice(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

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

// Application represents an integration application owned by an organization.
// Environments lists the named environments currently selected on the
// application; credentials and policies are keyed by (application,
// environment).
type Application struct {
	ID             string    `json:"id" db:"uuid"`
	Handle         string    `json:"handle" db:"handle"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description,omitempty" db:"description"`
	OrganizationID string    `json:"organizationId" db:"organization_uuid"` // FK to Organization.ID
	Environments   []string  `json:"environments" db:"environments"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the Application model
func (Application) TableName() string {
	return "applications"
}

// HasEnvironment reports whether env is currently selected on the application.
func (a *Application) HasEnvironment(env string) bool {
	for _, e := range a.Environments {
		if e == env {
			return true
		}
	}
	return false
}

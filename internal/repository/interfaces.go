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
	"time"

	"console-api/internal/model"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	CreateOrganization(org *model.Organization) error
	GetOrganizationByUUID(uuid string) (*model.Organization, error)
	GetOrganizationByHandle(handle string) (*model.Organization, error)
	UpdateOrganization(org *model.Organization) error
	DeleteOrganization(uuid string) error
	ListOrganizations(limit, offset int) ([]*model.Organization, error)
}

// ApplicationRepository defines the interface for application data access
type ApplicationRepository interface {
	CreateApplication(app *model.Application) error
	GetApplicationByUUID(uuid, orgID string) (*model.Application, error)
	GetApplicationByHandle(handle, orgID string) (*model.Application, error)
	UpdateApplication(app *model.Application) error
	DeleteApplication(uuid, orgID string) error
	ListApplications(orgID string, limit, offset int) ([]*model.Application, error)
}

// CredentialRepository defines the interface for credential data access.
// UpdateCredential is a conditional write: it succeeds only when the stored
// revision matches the one on the passed record, and returns
// constants.ErrConflict otherwise. DeleteExpired physically removes
// terminal-state records whose ttl has elapsed.
type CredentialRepository interface {
	CreateCredential(cred *model.Credential) error
	GetCredentialByUUID(uuid, orgID string) (*model.Credential, error)
	GetCredentialsByApplication(appID, orgID string) ([]*model.Credential, error)
	GetCredentialsByEnvironment(appID, orgID, environment string) ([]*model.Credential, error)
	UpdateCredential(cred *model.Credential) error
	GetExpiredRotating(now time.Time) ([]*model.Credential, error)
	DeleteExpired(now time.Time) (int64, error)
}

// PolicyRepository defines the interface for environment policy data access.
// DeletePolicy exists for callers outside this core; nothing here invokes it.
type PolicyRepository interface {
	CreatePolicy(policy *model.EnvironmentPolicy) error
	GetPolicy(appID, orgID, environment string) (*model.EnvironmentPolicy, error)
	GetPoliciesByApplication(appID, orgID string) ([]*model.EnvironmentPolicy, error)
	UpdatePolicy(policy *model.EnvironmentPolicy) error
	DeletePolicy(appID, orgID, environment string) error
}

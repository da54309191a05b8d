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
	"errors"
	"time"

	"console-api/internal/model"
	"console-api/internal/repository"
)

var errDatabase = errors.New("database failure")

// ============================================================================
// In-memory repository fakes shared by the service tests
// ============================================================================

// mockCredentialRepo is an in-memory CredentialRepository. Error fields
// force failures; failUpdateFor fails updates for one credential ID so
// cascade tests can exercise partial failures.
type mockCredentialRepo struct {
	repository.CredentialRepository // Embed interface for unimplemented methods

	creds map[string]*model.Credential

	createError   error
	getError      error
	updateError   error
	failUpdateFor string

	updateCalls int
}

func newMockCredentialRepo() *mockCredentialRepo {
	return &mockCredentialRepo{creds: map[string]*model.Credential{}}
}

func (m *mockCredentialRepo) CreateCredential(cred *model.Credential) error {
	if m.createError != nil {
		return m.createError
	}
	stored := *cred
	if stored.Revision == 0 {
		stored.Revision = 1
	}
	stored.CreatedAt = time.Now()
	m.creds[cred.ID] = &stored
	*cred = stored
	return nil
}

func (m *mockCredentialRepo) GetCredentialByUUID(uuid, orgID string) (*model.Credential, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	cred, ok := m.creds[uuid]
	if !ok || cred.OrganizationID != orgID {
		return nil, nil
	}
	copied := *cred
	return &copied, nil
}

func (m *mockCredentialRepo) GetCredentialsByApplication(appID, orgID string) ([]*model.Credential, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var result []*model.Credential
	for _, cred := range m.creds {
		if cred.ApplicationID == appID && cred.OrganizationID == orgID {
			copied := *cred
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockCredentialRepo) GetCredentialsByEnvironment(appID, orgID, environment string) ([]*model.Credential, error) {
	creds, err := m.GetCredentialsByApplication(appID, orgID)
	if err != nil {
		return nil, err
	}
	var result []*model.Credential
	for _, cred := range creds {
		if cred.Environment == environment {
			result = append(result, cred)
		}
	}
	return result, nil
}

func (m *mockCredentialRepo) UpdateCredential(cred *model.Credential) error {
	m.updateCalls++
	if m.updateError != nil {
		return m.updateError
	}
	if m.failUpdateFor != "" && cred.ID == m.failUpdateFor {
		return errDatabase
	}
	stored := *cred
	stored.Revision++
	m.creds[cred.ID] = &stored
	*cred = stored
	return nil
}

func (m *mockCredentialRepo) GetExpiredRotating(now time.Time) ([]*model.Credential, error) {
	var result []*model.Credential
	for _, cred := range m.creds {
		if cred.Status == "ROTATING" && cred.ExpiresAt != nil && cred.ExpiresAt.Before(now) {
			copied := *cred
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockCredentialRepo) DeleteExpired(now time.Time) (int64, error) {
	var deleted int64
	for id, cred := range m.creds {
		if cred.TTL > 0 && cred.TTL < now.Unix() {
			delete(m.creds, id)
			deleted++
		}
	}
	return deleted, nil
}

// mockApplicationRepo is an in-memory ApplicationRepository
type mockApplicationRepo struct {
	repository.ApplicationRepository // Embed interface for unimplemented methods

	apps map[string]*model.Application

	getError    error
	updateError error

	updateCalled bool
}

func newMockApplicationRepo(apps ...*model.Application) *mockApplicationRepo {
	m := &mockApplicationRepo{apps: map[string]*model.Application{}}
	for _, app := range apps {
		m.apps[app.ID] = app
	}
	return m
}

func (m *mockApplicationRepo) GetApplicationByUUID(uuid, orgID string) (*model.Application, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	app, ok := m.apps[uuid]
	if !ok || app.OrganizationID != orgID {
		return nil, nil
	}
	copied := *app
	copied.Environments = append([]string(nil), app.Environments...)
	return &copied, nil
}

func (m *mockApplicationRepo) GetApplicationByHandle(handle, orgID string) (*model.Application, error) {
	for _, app := range m.apps {
		if app.Handle == handle && app.OrganizationID == orgID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockApplicationRepo) CreateApplication(app *model.Application) error {
	m.apps[app.ID] = app
	return nil
}

func (m *mockApplicationRepo) UpdateApplication(app *model.Application) error {
	m.updateCalled = true
	if m.updateError != nil {
		return m.updateError
	}
	m.apps[app.ID] = app
	return nil
}

// mockPolicyRepo is an in-memory PolicyRepository keyed by
// applicationID/environment.
type mockPolicyRepo struct {
	repository.PolicyRepository // Embed interface for unimplemented methods

	policies map[string]*model.EnvironmentPolicy

	createError error
	updateError error
}

func newMockPolicyRepo() *mockPolicyRepo {
	return &mockPolicyRepo{policies: map[string]*model.EnvironmentPolicy{}}
}

func policyKey(appID, environment string) string {
	return appID + "/" + environment
}

func (m *mockPolicyRepo) CreatePolicy(policy *model.EnvironmentPolicy) error {
	if m.createError != nil {
		return m.createError
	}
	copied := *policy
	m.policies[policyKey(policy.ApplicationID, policy.Environment)] = &copied
	return nil
}

func (m *mockPolicyRepo) GetPolicy(appID, orgID, environment string) (*model.EnvironmentPolicy, error) {
	policy, ok := m.policies[policyKey(appID, environment)]
	if !ok || policy.OrganizationID != orgID {
		return nil, nil
	}
	copied := *policy
	return &copied, nil
}

func (m *mockPolicyRepo) GetPoliciesByApplication(appID, orgID string) ([]*model.EnvironmentPolicy, error) {
	var result []*model.EnvironmentPolicy
	for _, policy := range m.policies {
		if policy.ApplicationID == appID && policy.OrganizationID == orgID {
			copied := *policy
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockPolicyRepo) UpdatePolicy(policy *model.EnvironmentPolicy) error {
	if m.updateError != nil {
		return m.updateError
	}
	copied := *policy
	m.policies[policyKey(policy.ApplicationID, policy.Environment)] = &copied
	return nil
}

func newPolicyForTest(appID, orgID, environment string) *model.EnvironmentPolicy {
	return &model.EnvironmentPolicy{
		ApplicationID:      appID,
		OrganizationID:     orgID,
		Environment:        environment,
		AllowedOrigins:     []string{"https://app.example.com"},
		RateLimitPerMinute: 60,
		RateLimitPerDay:    10000,
	}
}

// mockOrganizationRepo is an in-memory OrganizationRepository
type mockOrganizationRepo struct {
	repository.OrganizationRepository // Embed interface for unimplemented methods

	orgs map[string]*model.Organization
}

func newMockOrganizationRepo(orgs ...*model.Organization) *mockOrganizationRepo {
	m := &mockOrganizationRepo{orgs: map[string]*model.Organization{}}
	for _, org := range orgs {
		m.orgs[org.ID] = org
	}
	return m
}

func (m *mockOrganizationRepo) CreateOrganization(org *model.Organization) error {
	m.orgs[org.ID] = org
	return nil
}

func (m *mockOrganizationRepo) GetOrganizationByUUID(uuid string) (*model.Organization, error) {
	org, ok := m.orgs[uuid]
	if !ok {
		return nil, nil
	}
	return org, nil
}

func (m *mockOrganizationRepo) GetOrganizationByHandle(handle string) (*model.Organization, error) {
	for _, org := range m.orgs {
		if org.Handle == handle {
			return org, nil
		}
	}
	return nil, nil
}

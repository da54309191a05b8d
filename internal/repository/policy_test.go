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
	"testing"

	"console-api/internal/constants"
	"console-api/internal/model"
)

func TestCreateAndGetPolicy(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestOrganization(t, db, "org-1")
	createTestApplication(t, db, "app-1", "org-1")

	repo := NewPolicyRepo(db)
	policy := &model.EnvironmentPolicy{
		ApplicationID:            "app-1",
		OrganizationID:           "org-1",
		Environment:              constants.EnvironmentProduction,
		AllowedOrigins:           []string{"https://app.example.com", "https://admin.example.com"},
		RateLimitPerMinute:       120,
		RateLimitPerDay:          50000,
		WebhookURL:               "https://hooks.example.com/keys",
		WebhookEnabled:           true,
		WebhookMaxRetries:        5,
		WebhookRetryDelaySeconds: 30,
		WebhookEvents:            []string{"key.generated", "key.revoked"},
		WebhookSecret:            "whsec_0011",
		FeatureFlags: map[string]interface{}{
			"beta_console": true,
			"sample_rate":  0.25,
		},
	}

	if err := repo.CreatePolicy(policy); err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}

	got, err := repo.GetPolicy("app-1", "org-1", constants.EnvironmentProduction)
	if err != nil {
		t.Fatalf("GetPolicy failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected policy, got nil")
	}
	if len(got.AllowedOrigins) != 2 || got.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("allowed origins did not round-trip: %v", got.AllowedOrigins)
	}
	if got.RateLimitPerMinute != 120 || got.RateLimitPerDay != 50000 {
		t.Errorf("rate limits did not round-trip: %d/%d", got.RateLimitPerMinute, got.RateLimitPerDay)
	}
	if !got.WebhookEnabled || got.WebhookURL != "https://hooks.example.com/keys" || got.WebhookSecret != "whsec_0011" {
		t.Errorf("webhook config did not round-trip: %+v", got)
	}
	if len(got.WebhookEvents) != 2 || got.WebhookEvents[1] != "key.revoked" {
		t.Errorf("webhook events did not round-trip: %v", got.WebhookEvents)
	}
	// JSON numbers come back as float64
	if enabled, ok := got.FeatureFlags["beta_console"].(bool); !ok || !enabled {
		t.Errorf("expected beta_console flag true, got %v", got.FeatureFlags["beta_console"])
	}
	if rate, ok := got.FeatureFlags["sample_rate"].(float64); !ok || rate != 0.25 {
		t.Errorf("expected sample_rate 0.25, got %v", got.FeatureFlags["sample_rate"])
	}

	missing, err := repo.GetPolicy("app-1", "org-1", constants.EnvironmentStaging)
	if err != nil {
		t.Fatalf("GetPolicy failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for environment without a policy")
	}
}

func TestCreatePolicyNormalizesNilCollections(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestOrganization(t, db, "org-1")
	createTestApplication(t, db, "app-1", "org-1")

	repo := NewPolicyRepo(db)
	policy := &model.EnvironmentPolicy{
		ApplicationID:      "app-1",
		OrganizationID:     "org-1",
		Environment:        constants.EnvironmentStaging,
		RateLimitPerMinute: 60,
		RateLimitPerDay:    10000,
	}
	if err := repo.CreatePolicy(policy); err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}

	got, err := repo.GetPolicy("app-1", "org-1", constants.EnvironmentStaging)
	if err != nil || got == nil {
		t.Fatalf("GetPolicy failed: %v", err)
	}
	if got.AllowedOrigins == nil || len(got.AllowedOrigins) != 0 {
		t.Errorf("expected empty origins slice, got %v", got.AllowedOrigins)
	}
	if got.FeatureFlags == nil || len(got.FeatureFlags) != 0 {
		t.Errorf("expected empty feature flag map, got %v", got.FeatureFlags)
	}
	if got.WebhookURL != "" || got.WebhookSecret != "" {
		t.Errorf("expected empty webhook strings, got %q / %q", got.WebhookURL, got.WebhookSecret)
	}
}

func TestUpdatePolicy(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestOrganization(t, db, "org-1")
	createTestApplication(t, db, "app-1", "org-1")

	repo := NewPolicyRepo(db)
	policy := &model.EnvironmentPolicy{
		ApplicationID:      "app-1",
		OrganizationID:     "org-1",
		Environment:        constants.EnvironmentProduction,
		AllowedOrigins:     []string{"https://app.example.com"},
		RateLimitPerMinute: 60,
		RateLimitPerDay:    10000,
	}
	if err := repo.CreatePolicy(policy); err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}

	policy.AllowedOrigins = append(policy.AllowedOrigins, "https://ops.example.com")
	policy.RateLimitPerMinute = 240
	policy.WebhookEnabled = true
	policy.WebhookURL = "https://hooks.example.com/keys"
	policy.WebhookSecret = "whsec_4455"
	policy.FeatureFlags = map[string]interface{}{"dark_mode": "auto"}
	if err := repo.UpdatePolicy(policy); err != nil {
		t.Fatalf("UpdatePolicy failed: %v", err)
	}

	got, err := repo.GetPolicy("app-1", "org-1", constants.EnvironmentProduction)
	if err != nil || got == nil {
		t.Fatalf("GetPolicy failed: %v", err)
	}
	if len(got.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins after update, got %v", got.AllowedOrigins)
	}
	if got.RateLimitPerMinute != 240 {
		t.Errorf("expected rate limit 240, got %d", got.RateLimitPerMinute)
	}
	if !got.WebhookEnabled || got.WebhookSecret != "whsec_4455" {
		t.Errorf("webhook update did not persist: %+v", got)
	}
	if mode, ok := got.FeatureFlags["dark_mode"].(string); !ok || mode != "auto" {
		t.Errorf("expected dark_mode flag %q, got %v", "auto", got.FeatureFlags["dark_mode"])
	}
}

func TestGetPoliciesByApplication(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestOrganization(t, db, "org-1")
	createTestApplication(t, db, "app-1", "org-1")
	createTestApplication(t, db, "app-2", "org-1")

	repo := NewPolicyRepo(db)
	for _, seed := range []struct {
		appID, environment string
	}{
		{"app-1", constants.EnvironmentProduction},
		{"app-1", constants.EnvironmentStaging},
		{"app-2", constants.EnvironmentProduction},
	} {
		policy := &model.EnvironmentPolicy{
			ApplicationID:      seed.appID,
			OrganizationID:     "org-1",
			Environment:        seed.environment,
			RateLimitPerMinute: 60,
			RateLimitPerDay:    10000,
		}
		if err := repo.CreatePolicy(policy); err != nil {
			t.Fatalf("CreatePolicy failed: %v", err)
		}
	}

	policies, err := repo.GetPoliciesByApplication("app-1", "org-1")
	if err != nil {
		t.Fatalf("GetPoliciesByApplication failed: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("expected 2 policies for app-1, got %d", len(policies))
	}
	environments := map[string]bool{}
	for _, policy := range policies {
		environments[policy.Environment] = true
	}
	if !environments[constants.EnvironmentProduction] || !environments[constants.EnvironmentStaging] {
		t.Errorf("unexpected environments: %v", environments)
	}
}

func TestDeletePolicy(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestOrganization(t, db, "org-1")
	createTestApplication(t, db, "app-1", "org-1")

	repo := NewPolicyRepo(db)
	policy := &model.EnvironmentPolicy{
		ApplicationID:      "app-1",
		OrganizationID:     "org-1",
		Environment:        constants.EnvironmentProduction,
		RateLimitPerMinute: 60,
		RateLimitPerDay:    10000,
	}
	if err := repo.CreatePolicy(policy); err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}

	if err := repo.DeletePolicy("app-1", "org-1", constants.EnvironmentProduction); err != nil {
		t.Fatalf("DeletePolicy failed: %v", err)
	}

	got, err := repo.GetPolicy("app-1", "org-1", constants.EnvironmentProduction)
	if err != nil {
		t.Fatalf("GetPolicy failed: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

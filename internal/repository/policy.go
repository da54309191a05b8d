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

// PolicyRepo implements PolicyRepository
type PolicyRepo struct {
	db *database.DB
}

// NewPolicyRepo creates a new environment policy repository
func NewPolicyRepo(db *database.DB) PolicyRepository {
	return &PolicyRepo{db: db}
}

const policyColumns = `application_uuid, organization_uuid, environment, allowed_origins,
		rate_limit_per_minute, rate_limit_per_day, webhook_url, webhook_enabled, webhook_max_retries,
		webhook_retry_delay_seconds, webhook_events, webhook_secret, feature_flags, created_at, updated_at`

// CreatePolicy inserts a new environment policy
func (r *PolicyRepo) CreatePolicy(policy *model.EnvironmentPolicy) error {
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()

	origins, events, flags, err := marshalPolicyColumns(policy)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO environment_policies (` + policyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(r.db.Rebind(query),
		policy.ApplicationID, policy.OrganizationID, policy.Environment, origins,
		policy.RateLimitPerMinute, policy.RateLimitPerDay,
		policy.WebhookURL, policy.WebhookEnabled, policy.WebhookMaxRetries,
		policy.WebhookRetryDelaySeconds, events, policy.WebhookSecret, flags,
		policy.CreatedAt, policy.UpdatedAt)

	return err
}

// GetPolicy retrieves the policy for one (application, environment) key
func (r *PolicyRepo) GetPolicy(appID, orgID, environment string) (*model.EnvironmentPolicy, error) {
	query := `
		SELECT ` + policyColumns + `
		FROM environment_policies
		WHERE application_uuid = ? AND organization_uuid = ? AND environment = ?
	`
	policy, err := scanPolicy(r.db.QueryRow(r.db.Rebind(query), appID, orgID, environment))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return policy, nil
}

// GetPoliciesByApplication retrieves all policies for an application
func (r *PolicyRepo) GetPoliciesByApplication(appID, orgID string) ([]*model.EnvironmentPolicy, error) {
	query := `
		SELECT ` + policyColumns + `
		FROM environment_policies
		WHERE application_uuid = ? AND organization_uuid = ?
	`
	rows, err := r.db.Query(r.db.Rebind(query), appID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*model.EnvironmentPolicy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}

	return policies, rows.Err()
}

// UpdatePolicy modifies an existing environment policy
func (r *PolicyRepo) UpdatePolicy(policy *model.EnvironmentPolicy) error {
	policy.UpdatedAt = time.Now()

	origins, events, flags, err := marshalPolicyColumns(policy)
	if err != nil {
		return err
	}

	query := `
		UPDATE environment_policies
		SET allowed_origins = ?, rate_limit_per_minute = ?, rate_limit_per_day = ?,
		    webhook_url = ?, webhook_enabled = ?, webhook_max_retries = ?,
		    webhook_retry_delay_seconds = ?, webhook_events = ?, webhook_secret = ?,
		    feature_flags = ?, updated_at = ?
		WHERE application_uuid = ? AND organization_uuid = ? AND environment = ?
	`
	_, err = r.db.Exec(r.db.Rebind(query),
		origins, policy.RateLimitPerMinute, policy.RateLimitPerDay,
		policy.WebhookURL, policy.WebhookEnabled, policy.WebhookMaxRetries,
		policy.WebhookRetryDelaySeconds, events, policy.WebhookSecret,
		flags, policy.UpdatedAt,
		policy.ApplicationID, policy.OrganizationID, policy.Environment)

	return err
}

// DeletePolicy removes an environment policy. Present for callers outside
// this core; the cascade coordinator never deletes policies.
func (r *PolicyRepo) DeletePolicy(appID, orgID, environment string) error {
	query := `
		DELETE FROM environment_policies
		WHERE application_uuid = ? AND organization_uuid = ? AND environment = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), appID, orgID, environment)
	return err
}

func marshalPolicyColumns(policy *model.EnvironmentPolicy) (origins, events, flags string, err error) {
	origins, err = marshalStringSlice(policy.AllowedOrigins)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal allowed origins: %w", err)
	}
	events, err = marshalStringSlice(policy.WebhookEvents)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal webhook events: %w", err)
	}

	featureFlags := policy.FeatureFlags
	if featureFlags == nil {
		featureFlags = map[string]interface{}{}
	}
	data, err := json.Marshal(featureFlags)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal feature flags: %w", err)
	}
	return origins, events, string(data), nil
}

func scanPolicy(row rowScanner) (*model.EnvironmentPolicy, error) {
	policy := &model.EnvironmentPolicy{}
	var webhookURL, webhookSecret sql.NullString
	var origins, events, flags string

	err := row.Scan(&policy.ApplicationID, &policy.OrganizationID, &policy.Environment, &origins,
		&policy.RateLimitPerMinute, &policy.RateLimitPerDay,
		&webhookURL, &policy.WebhookEnabled, &policy.WebhookMaxRetries,
		&policy.WebhookRetryDelaySeconds, &events, &webhookSecret, &flags,
		&policy.CreatedAt, &policy.UpdatedAt)
	if err != nil {
		return nil, err
	}

	policy.WebhookURL = webhookURL.String
	policy.WebhookSecret = webhookSecret.String
	if err := json.Unmarshal([]byte(origins), &policy.AllowedOrigins); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allowed origins: %w", err)
	}
	if err := json.Unmarshal([]byte(events), &policy.WebhookEvents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal webhook events: %w", err)
	}
	if err := json.Unmarshal([]byte(flags), &policy.FeatureFlags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature flags: %w", err)
	}
	if policy.AllowedOrigins == nil {
		policy.AllowedOrigins = []string{}
	}
	if policy.FeatureFlags == nil {
		policy.FeatureFlags = map[string]interface{}{}
	}
	return policy, nil
}

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

// EnvironmentPolicy holds per-application-per-environment configuration:
// allowed request origins, rate limits, webhook delivery settings and
// feature flags. A policy shares its (applicationId, environment) key with
// the environment's credential but has an independent lifecycle.
type EnvironmentPolicy struct {
	ApplicationID  string `json:"applicationId" db:"application_uuid"`
	OrganizationID string `json:"organizationId" db:"organization_uuid"`
	Environment    string `json:"environment" db:"environment"`

	// AllowedOrigins is a set: order irrelevant, duplicates forbidden.
	AllowedOrigins []string `json:"allowedOrigins" db:"allowed_origins"`

	// Rate limits; 0 is the sentinel for "not configured".
	RateLimitPerMinute int `json:"rateLimitPerMinute" db:"rate_limit_per_minute"`
	RateLimitPerDay    int `json:"rateLimitPerDay" db:"rate_limit_per_day"`

	WebhookURL               string   `json:"webhookUrl,omitempty" db:"webhook_url"`
	WebhookEnabled           bool     `json:"webhookEnabled" db:"webhook_enabled"`
	WebhookMaxRetries        int      `json:"webhookMaxRetries" db:"webhook_max_retries"`
	WebhookRetryDelaySeconds int      `json:"webhookRetryDelaySeconds" db:"webhook_retry_delay_seconds"`
	WebhookEvents            []string `json:"webhookEvents,omitempty" db:"webhook_events"`
	WebhookSecret            string   `json:"-" db:"webhook_secret"`

	// FeatureFlags maps flag keys to boolean, string or numeric values.
	FeatureFlags map[string]interface{} `json:"featureFlags" db:"feature_flags"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the EnvironmentPolicy model
func (EnvironmentPolicy) TableName() string {
	return "environment_policies"
}

// HasOrigin reports whether origin is present in the allowed set.
func (p *EnvironmentPolicy) HasOrigin(origin string) bool {
	for _, o := range p.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

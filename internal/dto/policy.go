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

// OriginRequest adds or removes one allowed request origin
type OriginRequest struct {
	Origin string `json:"origin" binding:"required"`
}

// UpdateRateLimitsRequest carries partial rate limit updates; omitted
// fields retain their prior values.
type UpdateRateLimitsRequest struct {
	RateLimitPerMinute *int `json:"rateLimitPerMinute,omitempty"`
	RateLimitPerDay    *int `json:"rateLimitPerDay,omitempty"`
}

// UpdateWebhookConfigRequest carries partial webhook configuration updates;
// omitted fields retain their prior values. The webhook secret is managed
// separately and cannot be set through this request.
type UpdateWebhookConfigRequest struct {
	WebhookURL               *string   `json:"webhookUrl,omitempty"`
	WebhookEnabled           *bool     `json:"webhookEnabled,omitempty"`
	WebhookMaxRetries        *int      `json:"webhookMaxRetries,omitempty"`
	WebhookRetryDelaySeconds *int      `json:"webhookRetryDelaySeconds,omitempty"`
	WebhookEvents            *[]string `json:"webhookEvents,omitempty"`
}

// SetFeatureFlagRequest sets one feature flag. Value may be a boolean,
// string or number; an existing key's value and type are overwritten.
type SetFeatureFlagRequest struct {
	Value interface{} `json:"value" binding:"required"`
}

// RegenerateWebhookSecretResponse returns the replacement signing secret.
// Like key secrets, it is shown exactly once.
type RegenerateWebhookSecretResponse struct {
	WebhookSecret string `json:"webhookSecret"`
}

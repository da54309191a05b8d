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
	"context"
	"fmt"
	"log"
	"strings"

	"console-api/internal/constants"
	"console-api/internal/dto"
	"console-api/internal/keygen"
	"console-api/internal/model"
	"console-api/internal/repository"
	"console-api/internal/utils"
)

// PolicyService manages environment policies: allowed origins, rate limits,
// webhook delivery configuration and feature flags. Policies are created
// lazily with defaults from the policy defaults file the first time an
// environment's configuration is read or written.
type PolicyService struct {
	policyRepo repository.PolicyRepository
	appRepo    repository.ApplicationRepository
	events     *EventService
	defaults   map[string]utils.PolicyDefaults
}

// NewPolicyService creates a new policy service instance
func NewPolicyService(policyRepo repository.PolicyRepository, appRepo repository.ApplicationRepository,
	events *EventService, defaults map[string]utils.PolicyDefaults) *PolicyService {
	return &PolicyService{
		policyRepo: policyRepo,
		appRepo:    appRepo,
		events:     events,
		defaults:   defaults,
	}
}

// CreatePolicy explicitly creates the environment's policy from defaults.
// Fails with ErrPolicyExists when one already exists.
func (s *PolicyService) CreatePolicy(ctx context.Context, appID, orgID, environment string) (*model.EnvironmentPolicy, error) {
	if !constants.IsValidEnvironment(environment) {
		return nil, constants.ErrInvalidEnvironment
	}

	app, err := s.appRepo.GetApplicationByUUID(appID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, constants.ErrApplicationNotFound
	}
	if !app.HasEnvironment(environment) {
		return nil, constants.ErrEnvironmentNotConfigured
	}

	existing, err := s.policyRepo.GetPolicy(appID, orgID, environment)
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	if existing != nil {
		return nil, constants.ErrPolicyExists
	}

	policy := s.newDefaultPolicy(appID, orgID, environment)
	if err := s.policyRepo.CreatePolicy(policy); err != nil {
		return nil, fmt.Errorf("failed to create policy: %w", err)
	}
	return policy, nil
}

// GetPolicy returns the environment's policy, creating it from defaults if
// it does not exist yet.
func (s *PolicyService) GetPolicy(ctx context.Context, appID, orgID, environment string) (*model.EnvironmentPolicy, error) {
	return s.getOrCreatePolicy(appID, orgID, environment)
}

// AddAllowedOrigin adds an origin to the environment's allowed set. Adding
// an origin that is already present is a no-op success.
func (s *PolicyService) AddAllowedOrigin(ctx context.Context, appID, orgID, environment, origin string) (*model.EnvironmentPolicy, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return nil, fmt.Errorf("%w: origin cannot be empty", constants.ErrInvalidPolicyValue)
	}

	policy, err := s.getOrCreatePolicy(appID, orgID, environment)
	if err != nil {
		return nil, err
	}
	if policy.HasOrigin(origin) {
		return policy, nil
	}

	policy.AllowedOrigins = append(policy.AllowedOrigins, origin)
	return s.savePolicy(policy)
}

// RemoveAllowedOrigin removes an origin from the allowed set. Removing an
// absent origin is a no-op success.
func (s *PolicyService) RemoveAllowedOrigin(ctx context.Context, appID, orgID, environment, origin string) (*model.EnvironmentPolicy, error) {
	policy, err := s.getOrCreatePolicy(appID, orgID, environment)
	if err != nil {
		return nil, err
	}
	if !policy.HasOrigin(origin) {
		return policy, nil
	}

	remaining := make([]string, 0, len(policy.AllowedOrigins))
	for _, o := range policy.AllowedOrigins {
		if o != origin {
			remaining = append(remaining, o)
		}
	}
	policy.AllowedOrigins = remaining
	return s.savePolicy(policy)
}

// UpdateRateLimits applies a partial rate limit update. Omitted fields keep
// their prior values; negative values are rejected.
func (s *PolicyService) UpdateRateLimits(ctx context.Context, appID, orgID, environment string,
	request *dto.UpdateRateLimitsRequest) (*model.EnvironmentPolicy, error) {

	policy, err := s.getOrCreatePolicy(appID, orgID, environment)
	if err != nil {
		return nil, err
	}

	if request.RateLimitPerMinute != nil {
		if *request.RateLimitPerMinute < 0 {
			return nil, fmt.Errorf("%w: rateLimitPerMinute cannot be negative", constants.ErrInvalidPolicyValue)
		}
		policy.RateLimitPerMinute = *request.RateLimitPerMinute
	}
	if request.RateLimitPerDay != nil {
		if *request.RateLimitPerDay < 0 {
			return nil, fmt.Errorf("%w: rateLimitPerDay cannot be negative", constants.ErrInvalidPolicyValue)
		}
		policy.RateLimitPerDay = *request.RateLimitPerDay
	}

	return s.savePolicy(policy)
}

// UpdateWebhookConfig applies a partial webhook configuration update.
// Omitted fields keep their prior values. The signing secret is never
// settable here; use RegenerateWebhookSecret.
func (s *PolicyService) UpdateWebhookConfig(ctx context.Context, appID, orgID, environment string,
	request *dto.UpdateWebhookConfigRequest) (*model.EnvironmentPolicy, error) {

	policy, err := s.getOrCreatePolicy(appID, orgID, environment)
	if err != nil {
		return nil, err
	}

	if request.WebhookURL != nil {
		policy.WebhookURL = strings.TrimSpace(*request.WebhookURL)
	}
	if request.WebhookEnabled != nil {
		policy.WebhookEnabled = *request.WebhookEnabled
	}
	if request.WebhookMaxRetries != nil {
		if *request.WebhookMaxRetries < 0 {
			return nil, fmt.Errorf("%w: webhookMaxRetries cannot be negative", constants.ErrInvalidPolicyValue)
		}
		policy.WebhookMaxRetries = *request.WebhookMaxRetries
	}
	if request.WebhookRetryDelaySeconds != nil {
		if *request.WebhookRetryDelaySeconds < 0 {
			return nil, fmt.Errorf("%w: webhookRetryDelaySeconds cannot be negative", constants.ErrInvalidPolicyValue)
		}
		policy.WebhookRetryDelaySeconds = *request.WebhookRetryDelaySeconds
	}
	if request.WebhookEvents != nil {
		policy.WebhookEvents = *request.WebhookEvents
	}

	// Enabling webhooks for the first time provisions a signing secret.
	if policy.WebhookEnabled && policy.WebhookSecret == "" {
		secret, err := keygen.NewWebhookSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate webhook secret: %w", err)
		}
		policy.WebhookSecret = secret
	}

	return s.savePolicy(policy)
}

// RegenerateWebhookSecret replaces the webhook signing secret. The new
// secret is returned exactly once and never readable afterwards.
func (s *PolicyService) RegenerateWebhookSecret(ctx context.Context, appID, orgID, environment string) (*dto.RegenerateWebhookSecretResponse, error) {
	policy, err := s.getOrCreatePolicy(appID, orgID, environment)
	if err != nil {
		return nil, err
	}

	secret, err := keygen.NewWebhookSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	policy.WebhookSecret = secret
	if _, err := s.savePolicyEvent(policy, constants.EventWebhookSecretRegenerate); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Regenerated webhook secret: appId=%s environment=%s", appID, environment)
	return &dto.RegenerateWebhookSecretResponse{WebhookSecret: policy.WebhookSecret}, nil
}

// SetFeatureFlag sets one feature flag to a boolean, string or numeric
// value, overwriting any existing value regardless of type.
func (s *PolicyService) SetFeatureFlag(ctx context.Context, appID, orgID, environment, key string, value interface{}) (*model.EnvironmentPolicy, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: feature flag key cannot be empty", constants.ErrInvalidPolicyValue)
	}

	switch value.(type) {
	case bool, string, float64, int, int64:
		// supported flag value types
	default:
		return nil, fmt.Errorf("%w: feature flag value must be a boolean, string or number", constants.ErrInvalidPolicyValue)
	}

	policy, err := s.getOrCreatePolicy(appID, orgID, environment)
	if err != nil {
		return nil, err
	}

	if policy.FeatureFlags == nil {
		policy.FeatureFlags = map[string]interface{}{}
	}
	policy.FeatureFlags[key] = value
	return s.savePolicy(policy)
}

// DeleteFeatureFlag removes one feature flag. Deleting an absent key is a
// no-op success.
func (s *PolicyService) DeleteFeatureFlag(ctx context.Context, appID, orgID, environment, key string) (*model.EnvironmentPolicy, error) {
	policy, err := s.getOrCreatePolicy(appID, orgID, environment)
	if err != nil {
		return nil, err
	}

	if _, ok := policy.FeatureFlags[key]; !ok {
		return policy, nil
	}
	delete(policy.FeatureFlags, key)
	return s.savePolicy(policy)
}

// getOrCreatePolicy loads the environment's policy, seeding it from the
// defaults file on first access.
func (s *PolicyService) getOrCreatePolicy(appID, orgID, environment string) (*model.EnvironmentPolicy, error) {
	if !constants.IsValidEnvironment(environment) {
		return nil, constants.ErrInvalidEnvironment
	}

	app, err := s.appRepo.GetApplicationByUUID(appID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, constants.ErrApplicationNotFound
	}
	if !app.HasEnvironment(environment) {
		return nil, constants.ErrEnvironmentNotConfigured
	}

	policy, err := s.policyRepo.GetPolicy(appID, orgID, environment)
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	if policy != nil {
		return policy, nil
	}

	policy = s.newDefaultPolicy(appID, orgID, environment)
	if err := s.policyRepo.CreatePolicy(policy); err != nil {
		return nil, fmt.Errorf("failed to create policy: %w", err)
	}
	log.Printf("[INFO] Created default policy: appId=%s environment=%s", appID, environment)
	return policy, nil
}

// newDefaultPolicy builds a policy from the defaults file, falling back to
// the built-in constants when the file carries no value.
func (s *PolicyService) newDefaultPolicy(appID, orgID, environment string) *model.EnvironmentPolicy {
	defaults := s.defaults[""]
	if override, ok := s.defaults[environment]; ok {
		defaults = mergePolicyDefaults(defaults, override)
	}

	policy := &model.EnvironmentPolicy{
		ApplicationID:            appID,
		OrganizationID:           orgID,
		Environment:              environment,
		AllowedOrigins:           []string{},
		RateLimitPerMinute:       defaults.RateLimitPerMinute,
		RateLimitPerDay:          defaults.RateLimitPerDay,
		WebhookMaxRetries:        defaults.WebhookMaxRetries,
		WebhookRetryDelaySeconds: defaults.WebhookRetryDelaySeconds,
		WebhookEvents:            defaults.WebhookEvents,
		FeatureFlags:             map[string]interface{}{},
	}
	if policy.RateLimitPerMinute == 0 {
		policy.RateLimitPerMinute = constants.DefaultRateLimitPerMinute
	}
	if policy.RateLimitPerDay == 0 {
		policy.RateLimitPerDay = constants.DefaultRateLimitPerDay
	}
	if policy.WebhookMaxRetries == 0 {
		policy.WebhookMaxRetries = constants.DefaultWebhookMaxRetries
	}
	if policy.WebhookRetryDelaySeconds == 0 {
		policy.WebhookRetryDelaySeconds = constants.DefaultWebhookRetryDelaySeconds
	}
	return policy
}

// mergePolicyDefaults overlays per-environment values onto the file-level
// defaults; zero fields keep the base value.
func mergePolicyDefaults(base, override utils.PolicyDefaults) utils.PolicyDefaults {
	if override.RateLimitPerMinute != 0 {
		base.RateLimitPerMinute = override.RateLimitPerMinute
	}
	if override.RateLimitPerDay != 0 {
		base.RateLimitPerDay = override.RateLimitPerDay
	}
	if override.WebhookMaxRetries != 0 {
		base.WebhookMaxRetries = override.WebhookMaxRetries
	}
	if override.WebhookRetryDelaySeconds != 0 {
		base.WebhookRetryDelaySeconds = override.WebhookRetryDelaySeconds
	}
	if len(override.WebhookEvents) > 0 {
		base.WebhookEvents = override.WebhookEvents
	}
	return base
}

func (s *PolicyService) savePolicy(policy *model.EnvironmentPolicy) (*model.EnvironmentPolicy, error) {
	return s.savePolicyEvent(policy, constants.EventPolicyUpdated)
}

func (s *PolicyService) savePolicyEvent(policy *model.EnvironmentPolicy, eventType string) (*model.EnvironmentPolicy, error) {
	if err := s.policyRepo.UpdatePolicy(policy); err != nil {
		return nil, fmt.Errorf("failed to update policy: %w", err)
	}
	s.events.PublishEnvironmentEvent(eventType, policy.OrganizationID, policy.ApplicationID, policy.Environment)
	return policy, nil
}

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
	"sort"
	"strings"
	"time"

	"console-api/internal/constants"
	"console-api/internal/dto"
	"console-api/internal/model"
	"console-api/internal/repository"
	"console-api/internal/utils"
)

// ProjectionService assembles the console keys view: credentials grouped by
// environment with display-ready activity text, badge styling and per-group
// issue tallies. The projection is a pure derivation of stored state; it
// never mutates anything.
type ProjectionService struct {
	credRepo   repository.CredentialRepository
	appRepo    repository.ApplicationRepository
	policyRepo repository.PolicyRepository

	now func() time.Time
}

// NewProjectionService creates a new projection service instance
func NewProjectionService(credRepo repository.CredentialRepository, appRepo repository.ApplicationRepository,
	policyRepo repository.PolicyRepository) *ProjectionService {
	return &ProjectionService{
		credRepo:   credRepo,
		appRepo:    appRepo,
		policyRepo: policyRepo,
		now:        time.Now,
	}
}

// GetKeysView loads an application's credentials and policies and projects
// them into the grouped console view.
func (s *ProjectionService) GetKeysView(ctx context.Context, appID, orgID string) (*dto.KeysView, error) {
	app, err := s.appRepo.GetApplicationByUUID(appID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, constants.ErrApplicationNotFound
	}

	creds, err := s.credRepo.GetCredentialsByApplication(appID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	policies, err := s.policyRepo.GetPoliciesByApplication(appID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	policyByEnv := make(map[string]*model.EnvironmentPolicy, len(policies))
	for _, policy := range policies {
		policyByEnv[policy.Environment] = policy
	}

	return BuildKeysView(app, creds, policyByEnv, s.now()), nil
}

// BuildKeysView projects credentials and policies into the grouped keys
// view. Environments follow the fixed priority order with unrecognized
// environments last; rows within a group order by status (ACTIVE, ROTATING,
// REVOKED, EXPIRED) with newer records first among equals. Statuses are
// effective: a rotating credential past its grace window projects EXPIRED.
func BuildKeysView(app *model.Application, creds []*model.Credential,
	policies map[string]*model.EnvironmentPolicy, now time.Time) *dto.KeysView {

	credsByEnv := make(map[string][]*model.Credential)
	for _, cred := range creds {
		credsByEnv[cred.Environment] = append(credsByEnv[cred.Environment], cred)
	}

	// Configured environments always get a group, even when empty; an
	// environment holding only leftover records still shows them.
	envSet := make(map[string]bool)
	envs := make([]string, 0, len(app.Environments))
	for _, env := range app.Environments {
		if !envSet[env] {
			envSet[env] = true
			envs = append(envs, env)
		}
	}
	for env := range credsByEnv {
		if !envSet[env] {
			envSet[env] = true
			envs = append(envs, env)
		}
	}
	sort.SliceStable(envs, func(i, j int) bool {
		return constants.EnvironmentRank(envs[i]) < constants.EnvironmentRank(envs[j])
	})

	view := &dto.KeysView{
		ApplicationID: app.ID,
		Environments:  make([]*dto.EnvironmentGroup, 0, len(envs)),
	}
	for _, env := range envs {
		view.Environments = append(view.Environments, buildEnvironmentGroup(env, credsByEnv[env], policies[env], now))
	}
	return view
}

func buildEnvironmentGroup(env string, creds []*model.Credential,
	policy *model.EnvironmentPolicy, now time.Time) *dto.EnvironmentGroup {

	sort.SliceStable(creds, func(i, j int) bool {
		ri := constants.StatusRank(EffectiveStatus(creds[i], now))
		rj := constants.StatusRank(EffectiveStatus(creds[j], now))
		if ri != rj {
			return ri < rj
		}
		return creds[i].CreatedAt.After(creds[j].CreatedAt)
	})

	group := &dto.EnvironmentGroup{
		Environment: env,
		Rows:        make([]*dto.KeyRow, 0, len(creds)),
	}

	hasUsable := false
	for _, cred := range creds {
		status := EffectiveStatus(cred, now)
		if status == constants.KeyStatusActive || status == constants.KeyStatusRotating {
			hasUsable = true
		}
		group.Rows = append(group.Rows, &dto.KeyRow{
			CredentialID: cred.ID,
			KeyPrefix:    cred.KeyPrefix,
			KeyType:      cred.KeyType,
			Status:       status,
			ActivityText: activityText(cred, status, now),
			BadgeClass:   "badge-" + strings.ToLower(status),
			IsMuted:      status == constants.KeyStatusRevoked || status == constants.KeyStatusExpired,
		})
	}
	if len(group.Rows) == 0 {
		group.Rows = append(group.Rows, &dto.KeyRow{
			Placeholder:  true,
			ActivityText: "No API key generated",
		})
	}

	group.IssueCount = countIssues(hasUsable, policy)
	return group
}

// activityText renders the one-line activity summary for a credential row
func activityText(cred *model.Credential, status string, now time.Time) string {
	switch status {
	case constants.KeyStatusActive:
		if cred.LastUsedAt == nil {
			return "Never used"
		}
		return "Last used " + utils.FormatRelativeTime(*cred.LastUsedAt, now)

	case constants.KeyStatusRotating:
		if cred.ExpiresAt == nil {
			return ""
		}
		days := utils.DaysUntil(*cred.ExpiresAt, now)
		if days > 30 {
			return "Expires on " + utils.FormatDate(*cred.ExpiresAt)
		}
		return fmt.Sprintf("Expires in %d days", days)

	case constants.KeyStatusRevoked:
		if cred.RevokedAt == nil {
			return ""
		}
		return "Revoked on " + utils.FormatDate(*cred.RevokedAt)

	case constants.KeyStatusExpired:
		if cred.ExpiresAt == nil {
			return ""
		}
		return "Expired on " + utils.FormatDate(*cred.ExpiresAt)
	}
	return ""
}

// countIssues tallies configuration problems surfaced on the environment
// header: no usable credential, no allowed origins, unset per-minute rate
// limit. A missing policy counts origin and rate limit issues from the
// zero values a default policy would have.
func countIssues(hasUsable bool, policy *model.EnvironmentPolicy) int {
	issues := 0
	if !hasUsable {
		issues++
	}
	if policy == nil || len(policy.AllowedOrigins) == 0 {
		issues++
	}
	if policy != nil && policy.RateLimitPerMinute == 0 {
		issues++
	}
	return issues
}

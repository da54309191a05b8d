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
	"time"

	"console-api/internal/constants"
	"console-api/internal/dto"
	"console-api/internal/model"
	"console-api/internal/repository"
)

// CascadeService coordinates environment removal: revoke every usable
// credential of the environment, then detach the environment from the
// application. Revocation is best effort per credential; the environment is
// detached only when every revocation succeeded, so a partial failure leaves
// it configured and the operation safe to retry. Environment policies are
// never deleted here.
type CascadeService struct {
	lifecycle *KeyLifecycleService
	credRepo  repository.CredentialRepository
	appRepo   repository.ApplicationRepository
	events    *EventService

	now func() time.Time
}

// NewCascadeService creates a new cascade coordinator
func NewCascadeService(lifecycle *KeyLifecycleService, credRepo repository.CredentialRepository,
	appRepo repository.ApplicationRepository, events *EventService) *CascadeService {
	return &CascadeService{
		lifecycle: lifecycle,
		credRepo:  credRepo,
		appRepo:   appRepo,
		events:    events,
		now:       time.Now,
	}
}

// RemoveEnvironment removes an environment from an application. With
// confirm=false it returns the credentials that would be revoked without
// mutating anything. With confirm=true it revokes them and, if all
// revocations succeed, detaches the environment; a partial failure returns
// PartialFailureError and leaves the environment in place.
func (s *CascadeService) RemoveEnvironment(ctx context.Context, appID, orgID, environment string, confirm bool) (*dto.RemoveEnvironmentResponse, error) {
	app, candidates, err := s.loadCandidates(appID, orgID, environment)
	if err != nil {
		return nil, err
	}

	if !confirm {
		return &dto.RemoveEnvironmentResponse{
			Environment: environment,
			Candidates:  candidates,
		}, nil
	}

	var revoked, failed []string
	for _, cred := range candidates {
		if err := ctx.Err(); err != nil {
			failed = append(failed, cred.ID)
			continue
		}
		if _, err := s.lifecycle.RevokeKey(ctx, cred.ID, orgID); err != nil {
			log.Printf("[WARN] Cascade revocation failed: appId=%s environment=%s credentialId=%s error=%v",
				appID, environment, cred.ID, err)
			failed = append(failed, cred.ID)
			continue
		}
		revoked = append(revoked, cred.ID)
	}

	if len(failed) > 0 {
		return nil, &constants.PartialFailureError{Revoked: revoked, Failed: failed}
	}

	remaining := make([]string, 0, len(app.Environments))
	for _, env := range app.Environments {
		if env != environment {
			remaining = append(remaining, env)
		}
	}
	app.Environments = remaining
	if err := s.appRepo.UpdateApplication(app); err != nil {
		return nil, fmt.Errorf("failed to detach environment: %w", err)
	}

	log.Printf("[INFO] Removed environment: appId=%s environment=%s revoked=%d", appID, environment, len(revoked))
	s.events.PublishEnvironmentEvent(constants.EventEnvironmentRemoved, orgID, appID, environment)

	return &dto.RemoveEnvironmentResponse{
		Environment: environment,
		Removed:     true,
		Revoked:     revoked,
	}, nil
}

// loadCandidates validates the target and lists credentials still usable in
// the environment (effective ACTIVE or ROTATING).
func (s *CascadeService) loadCandidates(appID, orgID, environment string) (*model.Application, []*model.Credential, error) {
	if !constants.IsValidEnvironment(environment) {
		return nil, nil, constants.ErrInvalidEnvironment
	}

	app, err := s.appRepo.GetApplicationByUUID(appID, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, nil, constants.ErrApplicationNotFound
	}
	if !app.HasEnvironment(environment) {
		return nil, nil, constants.ErrEnvironmentNotConfigured
	}

	creds, err := s.credRepo.GetCredentialsByEnvironment(appID, orgID, environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	now := s.now()
	var candidates []*model.Credential
	for _, cred := range creds {
		switch EffectiveStatus(cred, now) {
		case constants.KeyStatusActive, constants.KeyStatusRotating:
			candidates = append(candidates, cred)
		}
	}
	return app, candidates, nil
}

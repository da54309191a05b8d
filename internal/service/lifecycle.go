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
	"console-api/internal/keygen"
	"console-api/internal/model"
	"console-api/internal/repository"

	"github.com/google/uuid"
)

// KeyLifecycleService owns the credential state machine: issuance, rotation
// with a dual-key grace window, revocation and lazy expiry. Records are only
// ever mutated through these transitions, never by direct field edits.
type KeyLifecycleService struct {
	credRepo repository.CredentialRepository
	appRepo  repository.ApplicationRepository
	events   *EventService

	rotationGrace time.Duration
	retention     time.Duration

	// now is swappable for tests
	now func() time.Time
}

// NewKeyLifecycleService creates a new key lifecycle service instance
func NewKeyLifecycleService(credRepo repository.CredentialRepository, appRepo repository.ApplicationRepository,
	events *EventService, rotationGraceDays, retentionDays int) *KeyLifecycleService {
	return &KeyLifecycleService{
		credRepo:      credRepo,
		appRepo:       appRepo,
		events:        events,
		rotationGrace: time.Duration(rotationGraceDays) * 24 * time.Hour,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
		now:           time.Now,
	}
}

// EffectiveStatus computes the status used for display and transition
// checks: a ROTATING credential past its grace window reads as EXPIRED even
// though the persisted status field still says ROTATING. Pure function of
// (status, expiresAt, now); no component may show a rotated-out key past its
// window as usable.
func EffectiveStatus(cred *model.Credential, now time.Time) string {
	if cred.Status == constants.KeyStatusRotating && cred.ExpiresAt != nil && cred.ExpiresAt.Before(now) {
		return constants.KeyStatusExpired
	}
	return cred.Status
}

// GenerateKey issues a new credential for an application environment.
// Fails with ErrActiveCredentialExists when the environment already has an
// effective-ACTIVE credential. The full secret is present in the response
// exactly once; only hash and prefix persist.
func (s *KeyLifecycleService) GenerateKey(ctx context.Context, appID, orgID, environment, keyType string) (*dto.GenerateKeyResponse, error) {
	if !constants.IsValidEnvironment(environment) {
		return nil, constants.ErrInvalidEnvironment
	}
	if keyType == "" {
		keyType = constants.KeyTypeSecret
	}
	if !constants.IsValidKeyType(keyType) {
		return nil, constants.ErrInvalidKeyType
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

	now := s.now()
	existing, err := s.credRepo.GetCredentialsByEnvironment(appID, orgID, environment)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	for _, cred := range existing {
		if EffectiveStatus(cred, now) == constants.KeyStatusActive {
			return nil, constants.ErrActiveCredentialExists
		}
	}

	cred, secret, err := s.issueCredential(app, environment, keyType, now)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Generated credential: appId=%s environment=%s keyPrefix=%s", appID, environment, cred.KeyPrefix)
	s.events.PublishKeyEvent(constants.EventKeyGenerated, cred)

	return &dto.GenerateKeyResponse{Key: cred, Secret: secret}, nil
}

// RotateKey replaces an active credential. The original keeps its identity
// and transitions to ROTATING with expiresAt = now + grace; a brand-new
// ACTIVE credential is issued for the same (application, environment). The
// secret is returned only for the new credential.
func (s *KeyLifecycleService) RotateKey(ctx context.Context, credentialID, orgID string) (*dto.RotateKeyResponse, error) {
	cred, err := s.credRepo.GetCredentialByUUID(credentialID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	if cred == nil {
		return nil, constants.ErrCredentialNotFound
	}

	now := s.now()
	if status := EffectiveStatus(cred, now); status != constants.KeyStatusActive {
		return nil, &constants.InvalidStateError{CredentialID: credentialID, Status: status, Requested: "rotate"}
	}

	app, err := s.appRepo.GetApplicationByUUID(cred.ApplicationID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, constants.ErrApplicationNotFound
	}

	expiresAt := now.Add(s.rotationGrace)
	cred.Status = constants.KeyStatusRotating
	cred.ExpiresAt = &expiresAt
	if err := s.credRepo.UpdateCredential(cred); err != nil {
		return nil, err
	}

	replacement, secret, err := s.issueCredential(app, cred.Environment, cred.KeyType, now)
	if err != nil {
		return nil, err
	}

	graceDays := int(s.rotationGrace / (24 * time.Hour))
	log.Printf("[INFO] Rotated credential: credentialId=%s environment=%s newCredentialId=%s graceDays=%d",
		cred.ID, cred.Environment, replacement.ID, graceDays)
	s.events.PublishKeyEvent(constants.EventKeyRotated, replacement)

	return &dto.RotateKeyResponse{
		Key:       replacement,
		Secret:    secret,
		Rotated:   cred,
		GraceDays: graceDays,
	}, nil
}

// RevokeKey terminates a credential from ACTIVE or ROTATING. Revocation
// immediately closes the validity window (expiresAt = revokedAt) and
// schedules physical cleanup (ttl = expiresAt + retention). Revoking an
// already-revoked credential is a no-op success.
func (s *KeyLifecycleService) RevokeKey(ctx context.Context, credentialID, orgID string) (*model.Credential, error) {
	cred, err := s.credRepo.GetCredentialByUUID(credentialID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	if cred == nil {
		return nil, constants.ErrCredentialNotFound
	}

	now := s.now()
	switch status := EffectiveStatus(cred, now); status {
	case constants.KeyStatusRevoked:
		return cred, nil
	case constants.KeyStatusActive, constants.KeyStatusRotating:
		// fall through to the transition
	default:
		return nil, &constants.InvalidStateError{CredentialID: credentialID, Status: status, Requested: "revoke"}
	}

	revokedAt := now
	cred.Status = constants.KeyStatusRevoked
	cred.RevokedAt = &revokedAt
	cred.ExpiresAt = &revokedAt
	cred.TTL = revokedAt.Add(s.retention).Unix()
	if err := s.credRepo.UpdateCredential(cred); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Revoked credential: credentialId=%s environment=%s", cred.ID, cred.Environment)
	s.events.PublishKeyEvent(constants.EventKeyRevoked, cred)

	return cred, nil
}

// SweepExpired finalizes rotating credentials whose grace window elapsed
// (persisting EXPIRED and scheduling their ttl) and physically deletes
// terminal-state records past their ttl. Driven by the server on a timer;
// the logical expiry itself never depends on this sweep.
func (s *KeyLifecycleService) SweepExpired(ctx context.Context) {
	now := s.now()

	expired, err := s.credRepo.GetExpiredRotating(now)
	if err != nil {
		log.Printf("[WARN] Failed to list expired rotating credentials: %v", err)
	}
	for _, cred := range expired {
		cred.Status = constants.KeyStatusExpired
		cred.TTL = cred.ExpiresAt.Add(s.retention).Unix()
		if err := s.credRepo.UpdateCredential(cred); err != nil {
			// A concurrent revoke may win the race; the next sweep catches up.
			log.Printf("[WARN] Failed to finalize expired credential: credentialId=%s error=%v", cred.ID, err)
		}
	}

	deleted, err := s.credRepo.DeleteExpired(now)
	if err != nil {
		log.Printf("[WARN] Failed to delete expired credentials: %v", err)
		return
	}
	if len(expired) > 0 || deleted > 0 {
		log.Printf("[INFO] Credential sweep completed: finalized=%d deleted=%d", len(expired), deleted)
	}
}

// issueCredential constructs and persists a fresh ACTIVE credential,
// returning the record and the full secret.
func (s *KeyLifecycleService) issueCredential(app *model.Application, environment, keyType string, now time.Time) (*model.Credential, string, error) {
	material, err := keygen.NewKeyMaterial(environment)
	if err != nil {
		return nil, "", err
	}

	activatesAt := now
	cred := &model.Credential{
		ID:             uuid.New().String(),
		ApplicationID:  app.ID,
		OrganizationID: app.OrganizationID,
		Environment:    environment,
		KeyPrefix:      material.KeyPrefix,
		KeyHash:        material.KeyHash,
		KeyType:        keyType,
		Status:         constants.KeyStatusActive,
		ActivatesAt:    &activatesAt,
	}
	if err := s.credRepo.CreateCredential(cred); err != nil {
		return nil, "", fmt.Errorf("failed to create credential: %w", err)
	}
	return cred, material.FullSecret, nil
}

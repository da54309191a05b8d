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
	"errors"
	"strings"
	"testing"
	"time"

	"console-api/internal/constants"
	"console-api/internal/model"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestApp() *model.Application {
	return &model.Application{
		ID:             "app-1",
		Handle:         "orders",
		Name:           "Orders",
		OrganizationID: "org-1",
		Environments:   []string{constants.EnvironmentProduction, constants.EnvironmentStaging},
	}
}

func newLifecycleFixture() (*KeyLifecycleService, *mockCredentialRepo, *mockApplicationRepo) {
	credRepo := newMockCredentialRepo()
	appRepo := newMockApplicationRepo(newTestApp())
	svc := NewKeyLifecycleService(credRepo, appRepo, nil, 7, 30)
	svc.now = func() time.Time { return testNow }
	return svc, credRepo, appRepo
}

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name        string
		appID       string
		environment string
		keyType     string
		wantErr     error
	}{
		{
			name:        "success in configured environment",
			appID:       "app-1",
			environment: constants.EnvironmentProduction,
		},
		{
			name:        "defaults to secret key type",
			appID:       "app-1",
			environment: constants.EnvironmentStaging,
			keyType:     "",
		},
		{
			name:        "invalid environment",
			appID:       "app-1",
			environment: "qa",
			wantErr:     constants.ErrInvalidEnvironment,
		},
		{
			name:        "environment not configured on application",
			appID:       "app-1",
			environment: constants.EnvironmentPreview,
			wantErr:     constants.ErrEnvironmentNotConfigured,
		},
		{
			name:        "unknown application",
			appID:       "missing",
			environment: constants.EnvironmentProduction,
			wantErr:     constants.ErrApplicationNotFound,
		},
		{
			name:        "invalid key type",
			appID:       "app-1",
			environment: constants.EnvironmentProduction,
			keyType:     "SIGNING",
			wantErr:     constants.ErrInvalidKeyType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newLifecycleFixture()

			resp, err := svc.GenerateKey(context.Background(), tt.appID, "org-1", tt.environment, tt.keyType)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GenerateKey() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateKey() unexpected error: %v", err)
			}

			key := resp.Key
			if key.Status != constants.KeyStatusActive {
				t.Errorf("Expected status ACTIVE, got %q", key.Status)
			}
			if key.KeyType != constants.KeyTypeSecret {
				t.Errorf("Expected key type SECRET, got %q", key.KeyType)
			}
			if key.ActivatesAt == nil || !key.ActivatesAt.Equal(testNow) {
				t.Errorf("Expected activatesAt %v, got %v", testNow, key.ActivatesAt)
			}
			if key.ExpiresAt != nil || key.RevokedAt != nil || key.TTL != 0 {
				t.Errorf("New key must carry no expiry fields: %+v", key)
			}
			if !strings.HasPrefix(resp.Secret, "ik_"+constants.EnvironmentTag(tt.environment)+"_") {
				t.Errorf("Secret %q does not carry the environment tag", resp.Secret)
			}
			if !strings.HasPrefix(resp.Secret, strings.TrimSuffix(key.KeyPrefix, constants.KeyMaskSuffix)) {
				t.Errorf("Prefix %q does not match secret %q", key.KeyPrefix, resp.Secret)
			}
		})
	}
}

func TestGenerateKeyRejectsSecondActive(t *testing.T) {
	svc, _, _ := newLifecycleFixture()

	if _, err := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, ""); err != nil {
		t.Fatalf("First GenerateKey() failed: %v", err)
	}

	_, err := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
	if !errors.Is(err, constants.ErrActiveCredentialExists) {
		t.Fatalf("Expected ErrActiveCredentialExists, got %v", err)
	}

	// A different environment is unaffected.
	if _, err := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentStaging, ""); err != nil {
		t.Fatalf("GenerateKey() in staging failed: %v", err)
	}
}

func TestGenerateKeyAfterRevoke(t *testing.T) {
	svc, _, _ := newLifecycleFixture()

	resp, err := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
	if err != nil {
		t.Fatalf("GenerateKey() failed: %v", err)
	}
	if _, err := svc.RevokeKey(context.Background(), resp.Key.ID, "org-1"); err != nil {
		t.Fatalf("RevokeKey() failed: %v", err)
	}

	if _, err := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, ""); err != nil {
		t.Fatalf("GenerateKey() after revoke failed: %v", err)
	}
}

func TestRotateKey(t *testing.T) {
	svc, credRepo, _ := newLifecycleFixture()

	generated, err := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
	if err != nil {
		t.Fatalf("GenerateKey() failed: %v", err)
	}

	resp, err := svc.RotateKey(context.Background(), generated.Key.ID, "org-1")
	if err != nil {
		t.Fatalf("RotateKey() failed: %v", err)
	}

	if resp.Rotated.ID != generated.Key.ID {
		t.Errorf("Rotation must keep the original's identity, got %q", resp.Rotated.ID)
	}
	if resp.Rotated.Status != constants.KeyStatusRotating {
		t.Errorf("Expected original status ROTATING, got %q", resp.Rotated.Status)
	}
	wantExpiry := testNow.Add(7 * 24 * time.Hour)
	if resp.Rotated.ExpiresAt == nil || !resp.Rotated.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("Expected grace expiry %v, got %v", wantExpiry, resp.Rotated.ExpiresAt)
	}
	if resp.GraceDays != 7 {
		t.Errorf("Expected graceDays 7, got %d", resp.GraceDays)
	}

	if resp.Key.ID == generated.Key.ID {
		t.Error("Replacement must be a new credential")
	}
	if resp.Key.Status != constants.KeyStatusActive {
		t.Errorf("Expected replacement status ACTIVE, got %q", resp.Key.Status)
	}
	if resp.Key.KeyPrefix == generated.Key.KeyPrefix {
		t.Error("Replacement must carry fresh key material")
	}
	if resp.Secret == "" {
		t.Error("Rotation must return the replacement secret")
	}

	// Both records persisted; exactly one ACTIVE remains.
	creds, _ := credRepo.GetCredentialsByEnvironment("app-1", "org-1", constants.EnvironmentProduction)
	active := 0
	for _, cred := range creds {
		if EffectiveStatus(cred, testNow) == constants.KeyStatusActive {
			active++
		}
	}
	if len(creds) != 2 || active != 1 {
		t.Errorf("Expected 2 credentials with 1 active, got %d with %d active", len(creds), active)
	}
}

func TestRotateKeyInvalidStates(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(svc *KeyLifecycleService) string
		status  string
	}{
		{
			name: "rotating credential cannot rotate",
			prepare: func(svc *KeyLifecycleService) string {
				resp, _ := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
				rotated, _ := svc.RotateKey(context.Background(), resp.Key.ID, "org-1")
				return rotated.Rotated.ID
			},
			status: constants.KeyStatusRotating,
		},
		{
			name: "revoked credential cannot rotate",
			prepare: func(svc *KeyLifecycleService) string {
				resp, _ := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
				revoked, _ := svc.RevokeKey(context.Background(), resp.Key.ID, "org-1")
				return revoked.ID
			},
			status: constants.KeyStatusRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newLifecycleFixture()
			credID := tt.prepare(svc)

			_, err := svc.RotateKey(context.Background(), credID, "org-1")
			var stateErr *constants.InvalidStateError
			if !errors.As(err, &stateErr) {
				t.Fatalf("Expected InvalidStateError, got %v", err)
			}
			if stateErr.Status != tt.status || stateErr.Requested != "rotate" {
				t.Errorf("Unexpected state error: %+v", stateErr)
			}
		})
	}
}

func TestRotateKeyExpiredGraceWindow(t *testing.T) {
	svc, _, _ := newLifecycleFixture()

	resp, _ := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
	rotated, _ := svc.RotateKey(context.Background(), resp.Key.ID, "org-1")

	// Move past the grace window: the stored status is still ROTATING but
	// the credential must be treated as EXPIRED.
	svc.now = func() time.Time { return testNow.Add(8 * 24 * time.Hour) }

	_, err := svc.RotateKey(context.Background(), rotated.Rotated.ID, "org-1")
	var stateErr *constants.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("Expected InvalidStateError, got %v", err)
	}
	if stateErr.Status != constants.KeyStatusExpired {
		t.Errorf("Expected effective status EXPIRED, got %q", stateErr.Status)
	}
}

func TestRevokeKey(t *testing.T) {
	svc, credRepo, _ := newLifecycleFixture()

	resp, _ := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")

	revoked, err := svc.RevokeKey(context.Background(), resp.Key.ID, "org-1")
	if err != nil {
		t.Fatalf("RevokeKey() failed: %v", err)
	}
	if revoked.Status != constants.KeyStatusRevoked {
		t.Errorf("Expected status REVOKED, got %q", revoked.Status)
	}
	if revoked.RevokedAt == nil || !revoked.RevokedAt.Equal(testNow) {
		t.Errorf("Expected revokedAt %v, got %v", testNow, revoked.RevokedAt)
	}
	if revoked.ExpiresAt == nil || !revoked.ExpiresAt.Equal(testNow) {
		t.Errorf("Revocation must close the validity window, got expiresAt %v", revoked.ExpiresAt)
	}
	wantTTL := testNow.Add(30 * 24 * time.Hour).Unix()
	if revoked.TTL != wantTTL {
		t.Errorf("Expected ttl %d, got %d", wantTTL, revoked.TTL)
	}

	// Second revoke is a no-op success with no further write.
	writes := credRepo.updateCalls
	again, err := svc.RevokeKey(context.Background(), resp.Key.ID, "org-1")
	if err != nil {
		t.Fatalf("Repeated RevokeKey() failed: %v", err)
	}
	if again.Status != constants.KeyStatusRevoked {
		t.Errorf("Expected status REVOKED, got %q", again.Status)
	}
	if credRepo.updateCalls != writes {
		t.Error("Repeated revoke must not write")
	}
}

func TestRevokeKeyRotating(t *testing.T) {
	svc, _, _ := newLifecycleFixture()

	resp, _ := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
	rotated, _ := svc.RotateKey(context.Background(), resp.Key.ID, "org-1")

	revoked, err := svc.RevokeKey(context.Background(), rotated.Rotated.ID, "org-1")
	if err != nil {
		t.Fatalf("RevokeKey() on rotating credential failed: %v", err)
	}
	if revoked.Status != constants.KeyStatusRevoked {
		t.Errorf("Expected status REVOKED, got %q", revoked.Status)
	}
	if !revoked.ExpiresAt.Equal(testNow) {
		t.Errorf("Revocation must override the grace expiry, got %v", revoked.ExpiresAt)
	}
}

func TestRevokeKeyExpired(t *testing.T) {
	svc, _, _ := newLifecycleFixture()

	resp, _ := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
	svc.RotateKey(context.Background(), resp.Key.ID, "org-1")

	svc.now = func() time.Time { return testNow.Add(8 * 24 * time.Hour) }

	_, err := svc.RevokeKey(context.Background(), resp.Key.ID, "org-1")
	var stateErr *constants.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("Expected InvalidStateError, got %v", err)
	}
	if stateErr.Status != constants.KeyStatusExpired || stateErr.Requested != "revoke" {
		t.Errorf("Unexpected state error: %+v", stateErr)
	}
}

func TestEffectiveStatus(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	tests := []struct {
		name string
		cred *model.Credential
		want string
	}{
		{
			name: "active stays active",
			cred: &model.Credential{Status: constants.KeyStatusActive},
			want: constants.KeyStatusActive,
		},
		{
			name: "rotating inside grace window",
			cred: &model.Credential{Status: constants.KeyStatusRotating, ExpiresAt: &future},
			want: constants.KeyStatusRotating,
		},
		{
			name: "rotating past grace window reads expired",
			cred: &model.Credential{Status: constants.KeyStatusRotating, ExpiresAt: &past},
			want: constants.KeyStatusExpired,
		},
		{
			name: "revoked is terminal",
			cred: &model.Credential{Status: constants.KeyStatusRevoked, ExpiresAt: &past},
			want: constants.KeyStatusRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStatus(tt.cred, testNow); got != tt.want {
				t.Errorf("EffectiveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSweepExpired(t *testing.T) {
	svc, credRepo, _ := newLifecycleFixture()

	resp, _ := svc.GenerateKey(context.Background(), "app-1", "org-1", constants.EnvironmentProduction, "")
	svc.RotateKey(context.Background(), resp.Key.ID, "org-1")

	// Past the grace window the sweep persists EXPIRED and schedules ttl.
	sweepTime := testNow.Add(8 * 24 * time.Hour)
	svc.now = func() time.Time { return sweepTime }
	svc.SweepExpired(context.Background())

	stored, _ := credRepo.GetCredentialByUUID(resp.Key.ID, "org-1")
	if stored.Status != constants.KeyStatusExpired {
		t.Fatalf("Expected persisted status EXPIRED, got %q", stored.Status)
	}
	wantTTL := testNow.Add(7 * 24 * time.Hour).Add(30 * 24 * time.Hour).Unix()
	if stored.TTL != wantTTL {
		t.Errorf("Expected ttl %d, got %d", wantTTL, stored.TTL)
	}

	// Once ttl elapses the record is physically removed.
	svc.now = func() time.Time { return sweepTime.Add(31 * 24 * time.Hour) }
	svc.SweepExpired(context.Background())

	gone, _ := credRepo.GetCredentialByUUID(resp.Key.ID, "org-1")
	if gone != nil {
		t.Error("Expected record to be deleted after ttl elapsed")
	}
}

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
	"testing"
	"time"

	"console-api/internal/constants"
	"console-api/internal/model"
)

func testCredential(id, env, status string, createdAt time.Time) *model.Credential {
	return &model.Credential{
		ID:             id,
		ApplicationID:  "app-1",
		OrganizationID: "org-1",
		Environment:    env,
		KeyPrefix:      "ik_" + constants.EnvironmentTag(env) + "_abcd****",
		KeyType:        constants.KeyTypeSecret,
		Status:         status,
		CreatedAt:      createdAt,
	}
}

func TestBuildKeysViewEnvironmentOrder(t *testing.T) {
	app := &model.Application{
		ID:             "app-1",
		OrganizationID: "org-1",
		// Deliberately unordered; the projection must impose priority order.
		Environments: []string{
			constants.EnvironmentTest,
			constants.EnvironmentProduction,
			constants.EnvironmentDevelopment,
		},
	}
	creds := []*model.Credential{
		testCredential("c1", constants.EnvironmentStaging, constants.KeyStatusRevoked, testNow),
		testCredential("c2", "legacy", constants.KeyStatusRevoked, testNow),
	}

	view := BuildKeysView(app, creds, nil, testNow)

	got := make([]string, 0, len(view.Environments))
	for _, group := range view.Environments {
		got = append(got, group.Environment)
	}
	want := []string{
		constants.EnvironmentProduction,
		constants.EnvironmentStaging,
		constants.EnvironmentDevelopment,
		constants.EnvironmentTest,
		"legacy",
	}
	if len(got) != len(want) {
		t.Fatalf("Expected environments %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected environments %v, got %v", want, got)
		}
	}
}

func TestBuildKeysViewRowOrder(t *testing.T) {
	app := &model.Application{
		ID:             "app-1",
		OrganizationID: "org-1",
		Environments:   []string{constants.EnvironmentProduction},
	}

	older := testNow.Add(-48 * time.Hour)
	newer := testNow.Add(-time.Hour)
	past := testNow.Add(-time.Minute)
	future := testNow.Add(72 * time.Hour)

	rotating := testCredential("rotating", constants.EnvironmentProduction, constants.KeyStatusRotating, older)
	rotating.ExpiresAt = &future

	lapsed := testCredential("lapsed", constants.EnvironmentProduction, constants.KeyStatusRotating, older)
	lapsed.ExpiresAt = &past

	revokedOld := testCredential("revoked-old", constants.EnvironmentProduction, constants.KeyStatusRevoked, older)
	revokedOld.RevokedAt = &older
	revokedNew := testCredential("revoked-new", constants.EnvironmentProduction, constants.KeyStatusRevoked, newer)
	revokedNew.RevokedAt = &newer

	active := testCredential("active", constants.EnvironmentProduction, constants.KeyStatusActive, newer)

	creds := []*model.Credential{revokedOld, lapsed, rotating, active, revokedNew}
	view := BuildKeysView(app, creds, nil, testNow)

	if len(view.Environments) != 1 {
		t.Fatalf("Expected 1 environment group, got %d", len(view.Environments))
	}
	rows := view.Environments[0].Rows

	want := []string{"active", "rotating", "revoked-new", "revoked-old", "lapsed"}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i, id := range want {
		if rows[i].CredentialID != id {
			t.Errorf("Row %d: expected %q, got %q", i, id, rows[i].CredentialID)
		}
	}

	// The lapsed rotation projects EXPIRED even though ROTATING is stored.
	if rows[4].Status != constants.KeyStatusExpired {
		t.Errorf("Expected lapsed rotation to project EXPIRED, got %q", rows[4].Status)
	}
}

func TestBuildKeysViewActivityText(t *testing.T) {
	lastUsed := testNow.Add(-3 * time.Hour)
	graceEnd := testNow.Add(72 * time.Hour)
	farEnd := testNow.Add(60 * 24 * time.Hour)
	revokedAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	expiredAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(cred *model.Credential)
		want   string
		muted  bool
	}{
		{
			name:   "active never used",
			mutate: func(cred *model.Credential) {},
			want:   "Never used",
		},
		{
			name:   "active with usage",
			mutate: func(cred *model.Credential) { cred.LastUsedAt = &lastUsed },
			want:   "Last used 3 hours ago",
		},
		{
			name: "rotating inside grace window",
			mutate: func(cred *model.Credential) {
				cred.Status = constants.KeyStatusRotating
				cred.ExpiresAt = &graceEnd
			},
			want: "Expires in 3 days",
		},
		{
			name: "rotating far in the future",
			mutate: func(cred *model.Credential) {
				cred.Status = constants.KeyStatusRotating
				cred.ExpiresAt = &farEnd
			},
			want: "Expires on May 14, 2026",
		},
		{
			name: "revoked",
			mutate: func(cred *model.Credential) {
				cred.Status = constants.KeyStatusRevoked
				cred.RevokedAt = &revokedAt
			},
			want:  "Revoked on Feb 1, 2026",
			muted: true,
		},
		{
			name: "expired",
			mutate: func(cred *model.Credential) {
				cred.Status = constants.KeyStatusExpired
				cred.ExpiresAt = &expiredAt
			},
			want:  "Expired on Jan 10, 2026",
			muted: true,
		},
	}

	app := &model.Application{
		ID:             "app-1",
		OrganizationID: "org-1",
		Environments:   []string{constants.EnvironmentProduction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := testCredential("c1", constants.EnvironmentProduction, constants.KeyStatusActive, testNow)
			tt.mutate(cred)

			view := BuildKeysView(app, []*model.Credential{cred}, nil, testNow)
			row := view.Environments[0].Rows[0]

			if row.ActivityText != tt.want {
				t.Errorf("ActivityText = %q, want %q", row.ActivityText, tt.want)
			}
			if row.IsMuted != tt.muted {
				t.Errorf("IsMuted = %v, want %v", row.IsMuted, tt.muted)
			}
		})
	}
}

func TestBuildKeysViewPlaceholder(t *testing.T) {
	app := &model.Application{
		ID:             "app-1",
		OrganizationID: "org-1",
		Environments:   []string{constants.EnvironmentDevelopment},
	}

	view := BuildKeysView(app, nil, nil, testNow)

	rows := view.Environments[0].Rows
	if len(rows) != 1 || !rows[0].Placeholder {
		t.Fatalf("Expected a single placeholder row, got %+v", rows)
	}
	if rows[0].ActivityText != "No API key generated" {
		t.Errorf("Unexpected placeholder text: %q", rows[0].ActivityText)
	}
}

func TestBuildKeysViewIssueCount(t *testing.T) {
	app := &model.Application{
		ID:             "app-1",
		OrganizationID: "org-1",
		Environments:   []string{constants.EnvironmentProduction},
	}
	active := testCredential("c1", constants.EnvironmentProduction, constants.KeyStatusActive, testNow)

	tests := []struct {
		name   string
		creds  []*model.Credential
		policy *model.EnvironmentPolicy
		want   int
	}{
		{
			name:   "healthy environment",
			creds:  []*model.Credential{active},
			policy: newPolicyForTest("app-1", "org-1", constants.EnvironmentProduction),
			want:   0,
		},
		{
			name:   "no credential at all",
			creds:  nil,
			policy: newPolicyForTest("app-1", "org-1", constants.EnvironmentProduction),
			want:   1,
		},
		{
			name:  "no origins and no rate limit",
			creds: []*model.Credential{active},
			policy: &model.EnvironmentPolicy{
				ApplicationID:  "app-1",
				OrganizationID: "org-1",
				Environment:    constants.EnvironmentProduction,
			},
			want: 2,
		},
		{
			name:   "missing policy counts origin issue only",
			creds:  []*model.Credential{active},
			policy: nil,
			want:   1,
		},
		{
			name: "only revoked credentials",
			creds: func() []*model.Credential {
				revoked := testCredential("c2", constants.EnvironmentProduction, constants.KeyStatusRevoked, testNow)
				return []*model.Credential{revoked}
			}(),
			policy: newPolicyForTest("app-1", "org-1", constants.EnvironmentProduction),
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policies := map[string]*model.EnvironmentPolicy{}
			if tt.policy != nil {
				policies[constants.EnvironmentProduction] = tt.policy
			}

			view := BuildKeysView(app, tt.creds, policies, testNow)
			if got := view.Environments[0].IssueCount; got != tt.want {
				t.Errorf("IssueCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildKeysViewBadges(t *testing.T) {
	app := &model.Application{
		ID:             "app-1",
		OrganizationID: "org-1",
		Environments:   []string{constants.EnvironmentProduction},
	}
	cred := testCredential("c1", constants.EnvironmentProduction, constants.KeyStatusActive, testNow)

	view := BuildKeysView(app, []*model.Credential{cred}, nil, testNow)
	if got := view.Environments[0].Rows[0].BadgeClass; got != "badge-active" {
		t.Errorf("BadgeClass = %q, want badge-active", got)
	}
}

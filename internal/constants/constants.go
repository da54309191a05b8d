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

package constants

// Environment identifiers. Wire values are stored and exchanged as-is;
// they must stay stable for compatibility with existing records.
const (
	EnvironmentProduction  = "production"
	EnvironmentStaging     = "staging"
	EnvironmentDevelopment = "development"
	EnvironmentTest        = "test"
	EnvironmentPreview     = "preview"
	EnvironmentUnknown     = "unknown"
)

// environmentTags maps environment identifiers to the short tag embedded in
// key material. Tags are distinct across environments so two credentials for
// different environments can never share a displayable prefix.
var environmentTags = map[string]string{
	EnvironmentProduction:  "prod",
	EnvironmentStaging:     "stg",
	EnvironmentDevelopment: "dev",
	EnvironmentTest:        "test",
	EnvironmentPreview:     "prev",
}

// EnvironmentPriority is the fixed display ordering for environments.
// Never alphabetical, never insertion order.
var EnvironmentPriority = []string{
	EnvironmentProduction,
	EnvironmentStaging,
	EnvironmentDevelopment,
	EnvironmentTest,
	EnvironmentPreview,
}

// IsValidEnvironment reports whether env is one of the configured environment
// identifiers (unknown is not a configurable environment).
func IsValidEnvironment(env string) bool {
	_, ok := environmentTags[env]
	return ok
}

// EnvironmentTag returns the key-material tag for an environment, or "unk"
// for unrecognized environments.
func EnvironmentTag(env string) string {
	if tag, ok := environmentTags[env]; ok {
		return tag
	}
	return "unk"
}

// EnvironmentRank returns the position of env in the fixed priority order.
// Unknown environments sort after all configured ones.
func EnvironmentRank(env string) int {
	for i, e := range EnvironmentPriority {
		if e == env {
			return i
		}
	}
	return len(EnvironmentPriority)
}

// Credential status wire values. Persisted bit-for-bit; any change breaks
// compatibility with stored records.
const (
	KeyStatusActive   = "ACTIVE"
	KeyStatusRotating = "ROTATING"
	KeyStatusRevoked  = "REVOKED"
	KeyStatusExpired  = "EXPIRED"
	KeyStatusUnknown  = "UNKNOWN"
)

// statusRank orders statuses for display within an environment group.
var statusRank = map[string]int{
	KeyStatusActive:   0,
	KeyStatusRotating: 1,
	KeyStatusRevoked:  2,
	KeyStatusExpired:  3,
	KeyStatusUnknown:  4,
}

// StatusRank returns the within-environment display position for a status.
func StatusRank(status string) int {
	if r, ok := statusRank[status]; ok {
		return r
	}
	return statusRank[KeyStatusUnknown]
}

// Credential key types
const (
	KeyTypePublishable = "PUBLISHABLE"
	KeyTypeSecret      = "SECRET"
)

// IsValidKeyType reports whether keyType is a recognized key type.
func IsValidKeyType(keyType string) bool {
	return keyType == KeyTypePublishable || keyType == KeyTypeSecret
}

// Key material format constants
const (
	// KeyPrefixLiteral is the fixed literal segment leading every issued key
	KeyPrefixLiteral = "ik"
	// KeySecretLength is the number of random alphanumeric characters in the secret segment
	KeySecretLength = 32
	// KeyPrefixVisibleChars is how many characters of the secret segment appear in the displayable prefix
	KeyPrefixVisibleChars = 4
	// KeyMaskSuffix is the fixed masking suffix appended to the displayable prefix
	KeyMaskSuffix = "****"
	// WebhookSecretPrefix leads every generated webhook signing secret
	WebhookSecretPrefix = "whsec_"
)

// Environment policy defaults applied when no per-environment override is
// configured (see resources/default-policy-settings.yaml).
const (
	DefaultRateLimitPerMinute       = 60
	DefaultRateLimitPerDay          = 10000
	DefaultWebhookMaxRetries        = 3
	DefaultWebhookRetryDelaySeconds = 60
)

// Console event types pushed over the websocket event stream
const (
	EventKeyGenerated            = "key.generated"
	EventKeyRotated              = "key.rotated"
	EventKeyRevoked              = "key.revoked"
	EventPolicyUpdated           = "policy.updated"
	EventEnvironmentRemoved      = "environment.removed"
	EventWebhookSecretRegenerate = "policy.webhook_secret_regenerated"
)

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

import (
	"console-api/internal/model"
)

// GenerateKeyRequest is the payload for issuing a new credential
type GenerateKeyRequest struct {
	KeyType string `json:"keyType,omitempty"`
}

// GenerateKeyResponse returns the persisted record plus the full secret.
// The secret appears here exactly once and is never retrievable again.
type GenerateKeyResponse struct {
	Key    *model.Credential `json:"key"`
	Secret string            `json:"secret"`
}

// RotateKeyResponse returns both records produced by a rotation: the
// replacement (with its secret, shown once) and the rotated-out original.
type RotateKeyResponse struct {
	Key       *model.Credential `json:"key"`
	Secret    string            `json:"secret"`
	Rotated   *model.Credential `json:"rotatedKey"`
	GraceDays int               `json:"graceDays"`
}

// RemoveEnvironmentRequest confirms (or previews) an environment removal
type RemoveEnvironmentRequest struct {
	Confirm bool `json:"confirm"`
}

// RemoveEnvironmentResponse reports the outcome of an environment removal.
// For a preview (confirm=false) Candidates lists the credentials that would
// be revoked; nothing is mutated.
type RemoveEnvironmentResponse struct {
	Environment string              `json:"environment"`
	Removed     bool                `json:"removed"`
	Candidates  []*model.Credential `json:"candidates,omitempty"`
	Revoked     []string            `json:"revoked,omitempty"`
	Failed      []string            `json:"failed,omitempty"`
}

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

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrOrganizationExists   = errors.New("organization already exists with the given UUID")
	ErrHandleExists         = errors.New("handle already exists")
	ErrInvalidHandle        = errors.New("invalid handle format")
)

var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationExists        = errors.New("application already exists in organization")
	ErrInvalidApplicationName   = errors.New("invalid application name")
	ErrInvalidEnvironment       = errors.New("invalid environment")
	ErrEnvironmentNotConfigured = errors.New("environment is not configured on the application")
	ErrEnvironmentExists        = errors.New("environment is already configured on the application")
)

var (
	ErrCredentialNotFound     = errors.New("credential not found")
	ErrActiveCredentialExists = errors.New("an active credential already exists for the environment")
	ErrInvalidKeyType         = errors.New("invalid key type")
)

var (
	ErrPolicyNotFound = errors.New("environment policy not found")
	ErrPolicyExists   = errors.New("environment policy already exists")

	// ErrInvalidPolicyValue wraps field-level validation failures on policy
	// updates so handlers can map them to 400 responses.
	ErrInvalidPolicyValue = errors.New("invalid policy value")
)

// ErrConflict is surfaced when the repository reports a precondition failure
// on a conditional write (stale revision). Callers may re-fetch and retry.
var ErrConflict = errors.New("conflict: record was modified concurrently")

// InvalidStateError reports a credential transition that is not valid from
// the credential's current effective status. The current status is included
// so the caller can react.
type InvalidStateError struct {
	CredentialID string
	Status       string
	Requested    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("credential %s cannot %s from status %s", e.CredentialID, e.Requested, e.Status)
}

// PartialFailureError is raised by the cascade coordinator when at least one,
// but not all, credential revocations failed. It carries the identifiers of
// the revoked and failed credentials so the caller can decide how to proceed.
type PartialFailureError struct {
	Revoked []string
	Failed  []string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("revoked %d of %d credentials (failed: %s)",
		len(e.Revoked), len(e.Revoked)+len(e.Failed), strings.Join(e.Failed, ", "))
}

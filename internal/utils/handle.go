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

package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	handleMinLength = 3
	handleMaxLength = 63
	suffixAttempts  = 5
	suffixLength    = 4
)

var (
	// handlePattern matches lowercase alphanumeric segments joined by single hyphens
	handlePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	// dropPattern matches everything a handle cannot carry after lowercasing
	dropPattern = regexp.MustCompile(`[^a-z0-9-]+`)
	// hyphenRunPattern matches runs of hyphens left behind by sanitization
	hyphenRunPattern = regexp.MustCompile(`-{2,}`)
)

var (
	ErrHandleInvalid   = errors.New("handle must be 3-63 lowercase alphanumeric characters with single hyphens, not at the start or end")
	ErrHandleGenFailed = errors.New("failed to derive an unused handle")
)

// ValidateHandle checks a caller-supplied organization or application handle.
func ValidateHandle(handle string) error {
	if len(handle) < handleMinLength || len(handle) > handleMaxLength {
		return ErrHandleInvalid
	}
	if !handlePattern.MatchString(handle) {
		return ErrHandleInvalid
	}
	return nil
}

// GenerateHandle derives a handle from a display name. When existsCheck
// reports the slug as taken, random suffixes are tried a bounded number of
// times before giving up.
func GenerateHandle(source string, existsCheck func(string) bool) (string, error) {
	handle := slugify(source)

	if existsCheck == nil || !existsCheck(handle) {
		return handle, nil
	}

	for i := 0; i < suffixAttempts; i++ {
		candidate := appendSuffix(handle, randomSuffix())
		if !existsCheck(candidate) {
			return candidate, nil
		}
	}
	return "", ErrHandleGenFailed
}

// slugify lowercases the source, folds spaces and underscores into hyphens,
// strips everything else, and pads or truncates into the valid length range.
func slugify(source string) string {
	handle := strings.ToLower(strings.TrimSpace(source))
	handle = strings.NewReplacer(" ", "-", "_", "-").Replace(handle)
	handle = dropPattern.ReplaceAllString(handle, "")
	handle = hyphenRunPattern.ReplaceAllString(handle, "-")
	handle = strings.Trim(handle, "-")

	if len(handle) > handleMaxLength {
		handle = strings.TrimRight(handle[:handleMaxLength], "-")
	}

	switch {
	case handle == "":
		handle = randomSuffix() + randomSuffix()
	case len(handle) < handleMinLength:
		handle = handle + "-" + randomSuffix()
	}
	return handle
}

// appendSuffix attaches a suffix, truncating the base so the result stays
// within the maximum handle length.
func appendSuffix(handle, suffix string) string {
	maxBase := handleMaxLength - len(suffix) - 1
	if len(handle) > maxBase {
		handle = strings.TrimRight(handle[:maxBase], "-")
	}
	return handle + "-" + suffix
}

func randomSuffix() string {
	return uuid.New().String()[:suffixLength]
}

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

// Package keygen produces API key material. It is pure apart from the
// crypto/rand source: nothing here touches repositories or configuration.
package keygen

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"console-api/internal/constants"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// KeyMaterial is the result of generating a credential secret. FullSecret is
// returned to the caller exactly once and never persisted; KeyHash and
// KeyPrefix are the only representations that survive.
type KeyMaterial struct {
	FullSecret string
	KeyHash    string
	KeyPrefix  string
}

// NewKeyMaterial generates key material for an environment. The full secret
// is `ik_<envTag>_<32 alnum>`; the displayable prefix keeps the literal, the
// environment tag and the first 4 characters of the random segment, followed
// by a fixed masking suffix.
func NewKeyMaterial(environment string) (*KeyMaterial, error) {
	random, err := randomString(constants.KeySecretLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}

	tag := constants.EnvironmentTag(environment)
	secret := fmt.Sprintf("%s_%s_%s", constants.KeyPrefixLiteral, tag, random)
	prefix := fmt.Sprintf("%s_%s_%s%s", constants.KeyPrefixLiteral, tag,
		random[:constants.KeyPrefixVisibleChars], constants.KeyMaskSuffix)

	return &KeyMaterial{
		FullSecret: secret,
		KeyHash:    HashKey(secret),
		KeyPrefix:  prefix,
	}, nil
}

// HashKey returns the one-way hash persisted in place of the full secret.
func HashKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// NewWebhookSecret generates an opaque webhook signing secret. The old value
// is not recoverable once replaced.
func NewWebhookSecret() (string, error) {
	random, err := randomString(constants.KeySecretLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return constants.WebhookSecretPrefix + random, nil
}

// randomString draws n characters uniformly from the 36-symbol alphabet.
// Bytes outside the largest multiple of the alphabet size are rejected so no
// symbol is favored.
func randomString(n int) (string, error) {
	const limit = 256 - 256%len(alphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

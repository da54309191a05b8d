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
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PolicyDefaults carries the initial values applied to a newly created
// environment policy. Zero fields fall back to the built-in defaults.
type PolicyDefaults struct {
	RateLimitPerMinute       int      `yaml:"rateLimitPerMinute"`
	RateLimitPerDay          int      `yaml:"rateLimitPerDay"`
	WebhookMaxRetries        int      `yaml:"webhookMaxRetries"`
	WebhookRetryDelaySeconds int      `yaml:"webhookRetryDelaySeconds"`
	WebhookEvents            []string `yaml:"webhookEvents"`
}

type policyDefaultsDocument struct {
	Defaults     PolicyDefaults            `yaml:"defaults"`
	Environments map[string]PolicyDefaults `yaml:"environments"`
}

// LoadPolicyDefaults reads the per-environment policy defaults file. The
// returned map is keyed by environment identifier; the "" key holds the
// file-level defaults applied to environments without an override.
func LoadPolicyDefaults(path string) (map[string]PolicyDefaults, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("policy defaults path is empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy defaults file %s: %w", path, err)
	}

	var doc policyDefaultsDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy defaults file %s: %w", path, err)
	}

	defaults := map[string]PolicyDefaults{"": doc.Defaults}
	for env, override := range doc.Environments {
		defaults[strings.ToLower(strings.TrimSpace(env))] = override
	}
	return defaults, nil
}

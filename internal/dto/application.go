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

// CreateApplicationRequest creates a new application in the caller's organization
type CreateApplicationRequest struct {
	Handle       string   `json:"handle,omitempty"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description,omitempty"`
	Environments []string `json:"environments,omitempty"`
}

// UpdateApplicationRequest carries partial application updates
type UpdateApplicationRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddEnvironmentRequest attaches a named environment to an application
type AddEnvironmentRequest struct {
	Environment string `json:"environment" binding:"required"`
}

// CreateOrganizationRequest creates a new organization
type CreateOrganizationRequest struct {
	ID     string `json:"id,omitempty"`
	Handle string `json:"handle,omitempty"`
	Name   string `json:"name" binding:"required"`
}

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
	"fmt"
	"strings"

	"console-api/internal/constants"
	"console-api/internal/dto"
	"console-api/internal/model"
	"console-api/internal/repository"
	"console-api/internal/utils"

	"github.com/google/uuid"
)

// ApplicationService manages integration applications and their environment
// selection. Removing an environment goes through the cascade coordinator,
// not this service.
type ApplicationService struct {
	appRepo repository.ApplicationRepository
	orgRepo repository.OrganizationRepository
}

// NewApplicationService creates a new application service instance
func NewApplicationService(appRepo repository.ApplicationRepository, orgRepo repository.OrganizationRepository) *ApplicationService {
	return &ApplicationService{appRepo: appRepo, orgRepo: orgRepo}
}

// CreateApplication creates an application in the organization. A missing
// handle is derived from the name; requested environments must be valid.
func (s *ApplicationService) CreateApplication(orgID string, request *dto.CreateApplicationRequest) (*model.Application, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, constants.ErrInvalidApplicationName
	}

	org, err := s.orgRepo.GetOrganizationByUUID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, constants.ErrOrganizationNotFound
	}

	environments := make([]string, 0, len(request.Environments))
	for _, env := range request.Environments {
		if !constants.IsValidEnvironment(env) {
			return nil, constants.ErrInvalidEnvironment
		}
		if !containsString(environments, env) {
			environments = append(environments, env)
		}
	}

	handle := request.Handle
	if handle == "" {
		generated, err := utils.GenerateHandle(name, func(candidate string) bool {
			existing, err := s.appRepo.GetApplicationByHandle(candidate, orgID)
			return err == nil && existing != nil
		})
		if err != nil {
			return nil, err
		}
		handle = generated
	} else {
		if err := utils.ValidateHandle(handle); err != nil {
			return nil, constants.ErrInvalidHandle
		}
		existing, err := s.appRepo.GetApplicationByHandle(handle, orgID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrHandleExists
		}
	}

	app := &model.Application{
		ID:             uuid.New().String(),
		Handle:         handle,
		Name:           name,
		Description:    request.Description,
		OrganizationID: orgID,
		Environments:   environments,
	}
	if err := s.appRepo.CreateApplication(app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetApplication retrieves an application scoped to the organization
func (s *ApplicationService) GetApplication(appID, orgID string) (*model.Application, error) {
	app, err := s.appRepo.GetApplicationByUUID(appID, orgID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, constants.ErrApplicationNotFound
	}
	return app, nil
}

// ListApplications returns the organization's applications
func (s *ApplicationService) ListApplications(orgID string, limit, offset int) ([]*model.Application, error) {
	return s.appRepo.ListApplications(orgID, limit, offset)
}

// UpdateApplication applies a partial update; omitted fields keep their
// prior values.
func (s *ApplicationService) UpdateApplication(appID, orgID string, request *dto.UpdateApplicationRequest) (*model.Application, error) {
	app, err := s.GetApplication(appID, orgID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, constants.ErrInvalidApplicationName
		}
		app.Name = name
	}
	if request.Description != nil {
		app.Description = *request.Description
	}

	if err := s.appRepo.UpdateApplication(app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return app, nil
}

// DeleteApplication removes an application and, through the schema's
// cascade, its credentials and policies.
func (s *ApplicationService) DeleteApplication(appID, orgID string) error {
	app, err := s.GetApplication(appID, orgID)
	if err != nil {
		return err
	}
	return s.appRepo.DeleteApplication(app.ID, orgID)
}

// AddEnvironment attaches a named environment to the application. Adding an
// already-selected environment fails with ErrEnvironmentExists.
func (s *ApplicationService) AddEnvironment(appID, orgID, environment string) (*model.Application, error) {
	if !constants.IsValidEnvironment(environment) {
		return nil, constants.ErrInvalidEnvironment
	}

	app, err := s.GetApplication(appID, orgID)
	if err != nil {
		return nil, err
	}
	if app.HasEnvironment(environment) {
		return nil, constants.ErrEnvironmentExists
	}

	app.Environments = append(app.Environments, environment)
	if err := s.appRepo.UpdateApplication(app); err != nil {
		return nil, fmt.Errorf("failed to add environment: %w", err)
	}
	return app, nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

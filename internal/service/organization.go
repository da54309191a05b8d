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
	"console-api/internal/model"
	"console-api/internal/repository"
	"console-api/internal/utils"

	"github.com/google/uuid"
)

// OrganizationService manages tenant organizations
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new organization service instance
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// CreateOrganization creates an organization. A missing handle is derived
// from the name; an explicit handle must be unique and URL friendly.
func (s *OrganizationService) CreateOrganization(id, handle, name string) (*model.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("organization name cannot be empty")
	}

	if handle == "" {
		generated, err := utils.GenerateHandle(name, func(candidate string) bool {
			existing, err := s.orgRepo.GetOrganizationByHandle(candidate)
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
		existing, err := s.orgRepo.GetOrganizationByHandle(handle)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrHandleExists
		}
	}

	if id == "" {
		id = uuid.New().String()
	} else if existing, err := s.orgRepo.GetOrganizationByUUID(id); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, constants.ErrOrganizationExists
	}

	org := &model.Organization{
		ID:     id,
		Handle: handle,
		Name:   name,
	}
	if err := s.orgRepo.CreateOrganization(org); err != nil {
		return nil, err
	}
	return org, nil
}

// GetOrganization retrieves an organization by its identifier
func (s *OrganizationService) GetOrganization(id string) (*model.Organization, error) {
	org, err := s.orgRepo.GetOrganizationByUUID(id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, constants.ErrOrganizationNotFound
	}
	return org, nil
}

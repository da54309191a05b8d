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

package handler

import (
	"errors"
	"net/http"

	"console-api/internal/constants"
	"console-api/internal/dto"
	"console-api/internal/middleware"
	"console-api/internal/service"
	"console-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// OrganizationHandler exposes organization management
type OrganizationHandler struct {
	orgService *service.OrganizationService
}

func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// RegisterRoutes registers organization routes with the router
func (h *OrganizationHandler) RegisterRoutes(r *gin.Engine) {
	orgGroup := r.Group("/api/v1/organizations")
	{
		orgGroup.POST("", h.CreateOrganization)
		orgGroup.GET("/me", h.GetOrganization)
	}
}

// CreateOrganization handles POST /api/v1/organizations
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	org, err := h.orgService.CreateOrganization(req.ID, req.Handle, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, constants.ErrInvalidHandle):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
				"Invalid handle format"))
		case errors.Is(err, constants.ErrHandleExists):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict",
				"Handle already exists"))
		case errors.Is(err, constants.ErrOrganizationExists):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict",
				"Organization already exists"))
		default:
			utils.LogError("Failed to create organization", err)
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
				"Failed to create organization"))
		}
		return
	}

	c.JSON(http.StatusCreated, org)
}

// GetOrganization handles GET /api/v1/organizations/me
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	org, err := h.orgService.GetOrganization(orgID)
	if err != nil {
		if errors.Is(err, constants.ErrOrganizationNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
				"Organization not found"))
			return
		}
		utils.LogError("Failed to get organization", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to get organization"))
		return
	}

	c.JSON(http.StatusOK, org)
}

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
	"strconv"

	"console-api/internal/constants"
	"console-api/internal/dto"
	"console-api/internal/middleware"
	"console-api/internal/service"
	"console-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// ApplicationHandler exposes application CRUD and environment selection
type ApplicationHandler struct {
	appService *service.ApplicationService
}

func NewApplicationHandler(appService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// RegisterRoutes registers application routes with the router
func (h *ApplicationHandler) RegisterRoutes(r *gin.Engine) {
	appGroup := r.Group("/api/v1/applications")
	{
		appGroup.POST("", h.CreateApplication)
		appGroup.GET("", h.ListApplications)
		appGroup.GET("/:appId", h.GetApplication)
		appGroup.PUT("/:appId", h.UpdateApplication)
		appGroup.DELETE("/:appId", h.DeleteApplication)
		appGroup.POST("/:appId/environments", h.AddEnvironment)
	}
}

// CreateApplication handles POST /api/v1/applications
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	app, err := h.appService.CreateApplication(orgID, &req)
	if err != nil {
		h.writeApplicationError(c, err, "Failed to create application")
		return
	}

	c.JSON(http.StatusCreated, app)
}

// ListApplications handles GET /api/v1/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	apps, err := h.appService.ListApplications(orgID, limit, offset)
	if err != nil {
		utils.LogError("Failed to list applications", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to list applications"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "count": len(apps)})
}

// GetApplication handles GET /api/v1/applications/:appId
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	app, err := h.appService.GetApplication(c.Param("appId"), orgID)
	if err != nil {
		h.writeApplicationError(c, err, "Failed to get application")
		return
	}

	c.JSON(http.StatusOK, app)
}

// UpdateApplication handles PUT /api/v1/applications/:appId
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	var req dto.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	app, err := h.appService.UpdateApplication(c.Param("appId"), orgID, &req)
	if err != nil {
		h.writeApplicationError(c, err, "Failed to update application")
		return
	}

	c.JSON(http.StatusOK, app)
}

// DeleteApplication handles DELETE /api/v1/applications/:appId
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	if err := h.appService.DeleteApplication(c.Param("appId"), orgID); err != nil {
		h.writeApplicationError(c, err, "Failed to delete application")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddEnvironment handles POST /api/v1/applications/:appId/environments
func (h *ApplicationHandler) AddEnvironment(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	var req dto.AddEnvironmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	app, err := h.appService.AddEnvironment(c.Param("appId"), orgID, req.Environment)
	if err != nil {
		h.writeApplicationError(c, err, "Failed to add environment")
		return
	}

	c.JSON(http.StatusOK, app)
}

// writeApplicationError maps application errors onto HTTP statuses
func (h *ApplicationHandler) writeApplicationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, constants.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			"Application not found"))
	case errors.Is(err, constants.ErrOrganizationNotFound):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Organization not found"))
	case errors.Is(err, constants.ErrInvalidApplicationName):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Application name is required"))
	case errors.Is(err, constants.ErrInvalidEnvironment):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid environment"))
	case errors.Is(err, constants.ErrEnvironmentExists):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict",
			"Environment is already configured on the application"))
	case errors.Is(err, constants.ErrInvalidHandle):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid handle format"))
	case errors.Is(err, constants.ErrHandleExists):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict",
			"Handle already exists"))
	default:
		utils.LogError(fallback, err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error", fallback))
	}
}

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

// KeyHandler exposes the credential lifecycle and the projected keys view
type KeyHandler struct {
	lifecycle  *service.KeyLifecycleService
	cascade    *service.CascadeService
	projection *service.ProjectionService
}

func NewKeyHandler(lifecycle *service.KeyLifecycleService, cascade *service.CascadeService,
	projection *service.ProjectionService) *KeyHandler {
	return &KeyHandler{
		lifecycle:  lifecycle,
		cascade:    cascade,
		projection: projection,
	}
}

// RegisterRoutes registers key lifecycle routes with the router
func (h *KeyHandler) RegisterRoutes(r *gin.Engine) {
	appGroup := r.Group("/api/v1/applications/:appId")
	{
		appGroup.POST("/environments/:env/api-keys", h.GenerateKey)
		appGroup.POST("/api-keys/:keyId/rotate", h.RotateKey)
		appGroup.DELETE("/api-keys/:keyId", h.RevokeKey)
		appGroup.GET("/api-keys/view", h.GetKeysView)
		appGroup.DELETE("/environments/:env", h.RemoveEnvironment)
	}
}

// GenerateKey handles POST /api/v1/applications/:appId/environments/:env/api-keys
func (h *KeyHandler) GenerateKey(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	appID := c.Param("appId")
	environment := c.Param("env")

	var req dto.GenerateKeyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
			return
		}
	}

	resp, err := h.lifecycle.GenerateKey(c.Request.Context(), appID, orgID, environment, req.KeyType)
	if err != nil {
		h.writeLifecycleError(c, err, "Failed to generate key")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RotateKey handles POST /api/v1/applications/:appId/api-keys/:keyId/rotate
func (h *KeyHandler) RotateKey(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	resp, err := h.lifecycle.RotateKey(c.Request.Context(), c.Param("keyId"), orgID)
	if err != nil {
		h.writeLifecycleError(c, err, "Failed to rotate key")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RevokeKey handles DELETE /api/v1/applications/:appId/api-keys/:keyId
func (h *KeyHandler) RevokeKey(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	cred, err := h.lifecycle.RevokeKey(c.Request.Context(), c.Param("keyId"), orgID)
	if err != nil {
		h.writeLifecycleError(c, err, "Failed to revoke key")
		return
	}

	c.JSON(http.StatusOK, cred)
}

// GetKeysView handles GET /api/v1/applications/:appId/api-keys/view
func (h *KeyHandler) GetKeysView(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	view, err := h.projection.GetKeysView(c.Request.Context(), c.Param("appId"), orgID)
	if err != nil {
		if errors.Is(err, constants.ErrApplicationNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
				"Application not found"))
			return
		}
		utils.LogError("Failed to build keys view", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to build keys view"))
		return
	}

	c.JSON(http.StatusOK, view)
}

// RemoveEnvironment handles DELETE /api/v1/applications/:appId/environments/:env
// Without confirm=true the call previews the affected credentials and
// mutates nothing.
func (h *KeyHandler) RemoveEnvironment(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	confirm := c.Query("confirm") == "true"
	if c.Request.ContentLength > 0 {
		var req dto.RemoveEnvironmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
			return
		}
		confirm = confirm || req.Confirm
	}

	resp, err := h.cascade.RemoveEnvironment(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"), confirm)
	if err != nil {
		var partial *constants.PartialFailureError
		if errors.As(err, &partial) {
			// 207: some credentials were revoked, some were not; the
			// environment stays configured and the call is retryable.
			c.JSON(http.StatusMultiStatus, gin.H{
				"error":   "Some credentials could not be revoked",
				"revoked": partial.Revoked,
				"failed":  partial.Failed,
			})
			return
		}
		h.writeLifecycleError(c, err, "Failed to remove environment")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeLifecycleError maps lifecycle errors onto HTTP statuses
func (h *KeyHandler) writeLifecycleError(c *gin.Context, err error, fallback string) {
	var stateErr *constants.InvalidStateError
	switch {
	case errors.Is(err, constants.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			"Application not found"))
	case errors.Is(err, constants.ErrCredentialNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			"API key not found"))
	case errors.Is(err, constants.ErrInvalidEnvironment):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid environment"))
	case errors.Is(err, constants.ErrEnvironmentNotConfigured):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Environment is not configured on the application"))
	case errors.Is(err, constants.ErrInvalidKeyType):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid key type"))
	case errors.Is(err, constants.ErrActiveCredentialExists):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict",
			"Environment already has an active API key"))
	case errors.Is(err, constants.ErrConflict):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict",
			"The record was modified concurrently, retry the operation"))
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict", stateErr.Error()))
	default:
		utils.LogError(fallback, err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error", fallback))
	}
}

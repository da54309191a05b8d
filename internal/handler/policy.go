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

// PolicyHandler exposes environment policy configuration
type PolicyHandler struct {
	policyService *service.PolicyService
}

func NewPolicyHandler(policyService *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

// RegisterRoutes registers environment policy routes with the router
func (h *PolicyHandler) RegisterRoutes(r *gin.Engine) {
	policyGroup := r.Group("/api/v1/applications/:appId/environments/:env/policy")
	{
		policyGroup.POST("", h.CreatePolicy)
		policyGroup.GET("", h.GetPolicy)
		policyGroup.POST("/origins", h.AddOrigin)
		policyGroup.DELETE("/origins", h.RemoveOrigin)
		policyGroup.PUT("/rate-limits", h.UpdateRateLimits)
		policyGroup.PUT("/webhook", h.UpdateWebhookConfig)
		policyGroup.POST("/webhook/secret", h.RegenerateWebhookSecret)
		policyGroup.PUT("/feature-flags/:flag", h.SetFeatureFlag)
		policyGroup.DELETE("/feature-flags/:flag", h.DeleteFeatureFlag)
	}
}

// CreatePolicy handles POST /api/v1/applications/:appId/environments/:env/policy
func (h *PolicyHandler) CreatePolicy(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	policy, err := h.policyService.CreatePolicy(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"))
	if err != nil {
		h.writePolicyError(c, err, "Failed to create policy")
		return
	}

	c.JSON(http.StatusCreated, policy)
}

// GetPolicy handles GET /api/v1/applications/:appId/environments/:env/policy
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	policy, err := h.policyService.GetPolicy(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"))
	if err != nil {
		h.writePolicyError(c, err, "Failed to get policy")
		return
	}

	c.JSON(http.StatusOK, policy)
}

// AddOrigin handles POST /api/v1/applications/:appId/environments/:env/policy/origins
func (h *PolicyHandler) AddOrigin(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	var req dto.OriginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	policy, err := h.policyService.AddAllowedOrigin(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"), req.Origin)
	if err != nil {
		h.writePolicyError(c, err, "Failed to add origin")
		return
	}

	c.JSON(http.StatusOK, policy)
}

// RemoveOrigin handles DELETE /api/v1/applications/:appId/environments/:env/policy/origins
func (h *PolicyHandler) RemoveOrigin(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	var req dto.OriginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	policy, err := h.policyService.RemoveAllowedOrigin(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"), req.Origin)
	if err != nil {
		h.writePolicyError(c, err, "Failed to remove origin")
		return
	}

	c.JSON(http.StatusOK, policy)
}

// UpdateRateLimits handles PUT /api/v1/applications/:appId/environments/:env/policy/rate-limits
func (h *PolicyHandler) UpdateRateLimits(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	var req dto.UpdateRateLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	policy, err := h.policyService.UpdateRateLimits(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"), &req)
	if err != nil {
		h.writePolicyError(c, err, "Failed to update rate limits")
		return
	}

	c.JSON(http.StatusOK, policy)
}

// UpdateWebhookConfig handles PUT /api/v1/applications/:appId/environments/:env/policy/webhook
func (h *PolicyHandler) UpdateWebhookConfig(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	var req dto.UpdateWebhookConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	policy, err := h.policyService.UpdateWebhookConfig(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"), &req)
	if err != nil {
		h.writePolicyError(c, err, "Failed to update webhook configuration")
		return
	}

	c.JSON(http.StatusOK, policy)
}

// RegenerateWebhookSecret handles POST /api/v1/applications/:appId/environments/:env/policy/webhook/secret
func (h *PolicyHandler) RegenerateWebhookSecret(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	resp, err := h.policyService.RegenerateWebhookSecret(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"))
	if err != nil {
		h.writePolicyError(c, err, "Failed to regenerate webhook secret")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetFeatureFlag handles PUT /api/v1/applications/:appId/environments/:env/policy/feature-flags/:flag
func (h *PolicyHandler) SetFeatureFlag(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	var req dto.SetFeatureFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	policy, err := h.policyService.SetFeatureFlag(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"),
		c.Param("flag"), req.Value)
	if err != nil {
		h.writePolicyError(c, err, "Failed to set feature flag")
		return
	}

	c.JSON(http.StatusOK, policy)
}

// DeleteFeatureFlag handles DELETE /api/v1/applications/:appId/environments/:env/policy/feature-flags/:flag
func (h *PolicyHandler) DeleteFeatureFlag(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"Organization claim not found in token"))
		return
	}

	policy, err := h.policyService.DeleteFeatureFlag(c.Request.Context(), c.Param("appId"), orgID, c.Param("env"),
		c.Param("flag"))
	if err != nil {
		h.writePolicyError(c, err, "Failed to delete feature flag")
		return
	}

	c.JSON(http.StatusOK, policy)
}

// writePolicyError maps policy errors onto HTTP statuses
func (h *PolicyHandler) writePolicyError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, constants.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			"Application not found"))
	case errors.Is(err, constants.ErrInvalidEnvironment):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid environment"))
	case errors.Is(err, constants.ErrEnvironmentNotConfigured):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Environment is not configured on the application"))
	case errors.Is(err, constants.ErrPolicyExists):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict",
			"Policy already exists for this environment"))
	case errors.Is(err, constants.ErrPolicyNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			"Policy not found"))
	case errors.Is(err, constants.ErrInvalidPolicyValue):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
	default:
		utils.LogError(fallback, err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error", fallback))
	}
}

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

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims represents the JWT claims carried by console access tokens
type CustomClaims struct {
	Audience     string `json:"aud"`
	Email        string `json:"email"`
	JTI          string `json:"jti"`
	Organization string `json:"organization"`
	Scope        string `json:"scope"`
	Username     string `json:"username"`
	jwt.RegisteredClaims
}

// AuthConfig holds the configuration for JWT authentication
type AuthConfig struct {
	SecretKey      string
	TokenIssuer    string
	SkipPaths      []string // Paths to skip authentication
	SkipValidation bool     // Skip token signature validation (for development)
}

// AuthMiddleware creates a JWT authentication middleware. Every request must
// carry a bearer token with an organization claim; the claim scopes all
// downstream data access to the caller's tenant.
func AuthMiddleware(config AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		var claims *CustomClaims

		if config.SkipValidation {
			// Decode only; development mode accepts unsigned tokens.
			parser := jwt.NewParser(jwt.WithoutClaimsValidation())
			token, _, parseErr := parser.ParseUnverified(tokenString, &CustomClaims{})
			if parseErr != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": fmt.Sprintf("Invalid JWT format: %v", parseErr),
				})
				c.Abort()
				return
			}

			var ok bool
			claims, ok = token.Claims.(*CustomClaims)
			if !ok {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid token claims",
				})
				c.Abort()
				return
			}
		} else {
			token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.SecretKey), nil
			})
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": fmt.Sprintf("Invalid token: %v", err),
				})
				c.Abort()
				return
			}

			var ok bool
			claims, ok = token.Claims.(*CustomClaims)
			if !ok || !token.Valid {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid token claims",
				})
				c.Abort()
				return
			}

			if config.TokenIssuer != "" && claims.Issuer != config.TokenIssuer {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid token issuer",
				})
				c.Abort()
				return
			}
		}

		if claims.Organization == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Token missing required 'organization' claim",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("username", claims.Username)
		c.Set("organization", claims.Organization)
		c.Set("scope", claims.Scope)
		c.Set("claims", claims)

		c.Next()
	}
}

// GetOrganizationFromContext extracts the organization claim from the Gin context
func GetOrganizationFromContext(c *gin.Context) (string, bool) {
	organization, exists := c.Get("organization")
	if !exists {
		return "", false
	}
	orgStr, ok := organization.(string)
	return orgStr, ok
}

// GetUserIDFromContext extracts the user ID from the Gin context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

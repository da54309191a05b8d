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

// ErrorResponse is the error envelope every handler answers with. Code
// repeats the HTTP status, message carries the short reason phrase and
// description the optional human-readable detail.
type ErrorResponse struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// NewErrorResponse builds the error envelope. The description is optional;
// only the first one is used when several are passed.
func NewErrorResponse(code int, message string, description ...string) ErrorResponse {
	response := ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(description) > 0 {
		response.Description = description[0]
	}
	return response
}

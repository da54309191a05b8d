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
	"log"
	"runtime/debug"
)

// LogError logs an error with the stack of the call site. Handlers call it
// before answering with an opaque 500 so the cause is not lost.
func LogError(message string, err error) {
	if err == nil {
		return
	}
	log.Printf("[ERROR] %s: %v", message, err)
	log.Printf("[STACK] %s", debug.Stack())
}

// LogInfo logs an informational message
func LogInfo(message string) {
	log.Printf("[INFO] %s", message)
}

// LogWarning logs a warning message
func LogWarning(message string) {
	log.Printf("[WARN] %s", message)
}

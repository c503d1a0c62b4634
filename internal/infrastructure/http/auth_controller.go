package http

import (
	"encoding/json"
	"net/http"

	"housebroker/internal/application/services"
	"housebroker/pkg/response"
)

// HTTPAuthController handles HTTP requests for registration and login
type HTTPAuthController struct {
	identityService *services.UserIdentityService
}

// NewHTTPAuthController creates a new HTTP auth controller
func NewHTTPAuthController(identityService *services.UserIdentityService) *HTTPAuthController {
	return &HTTPAuthController{
		identityService: identityService,
	}
}

// Register handles POST /api/auth/register
func (c *HTTPAuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid JSON format")
		return
	}

	response.SendResult(w, r, c.identityService.Register(r.Context(), req))
}

// Login handles POST /api/auth/login
func (c *HTTPAuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid JSON format")
		return
	}

	response.SendResult(w, r, c.identityService.Login(r.Context(), req))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhunter5/Backend/internal/identity"
	"github.com/jhunter5/Backend/internal/services"
)

// RestAuthHandler covers onboarding checks and role management against the identity provider.
type RestAuthHandler struct {
	profileService services.IProfileService
	identityClient identity.IIdentityClient
}

func NewRestAuthHandler(profileService services.IProfileService, identityClient identity.IIdentityClient) *RestAuthHandler {
	return &RestAuthHandler{profileService: profileService, identityClient: identityClient}
}

type verifyProfileRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type assignRoleRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=Landlord Tenant"`
}

// VerifyProfile handles POST /api/auth/verifyProfile
func (h *RestAuthHandler) VerifyProfile(c *gin.Context) {
	var req verifyProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := h.profileService.VerifyProfile(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ListRoles handles GET /api/auth/roles
func (h *RestAuthHandler) ListRoles(c *gin.Context) {
	roles, err := h.identityClient.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// AssignRole handles POST /api/auth/assignRole
func (h *RestAuthHandler) AssignRole(c *gin.Context) {
	var req assignRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.identityClient.AssignRole(c.Request.Context(), req.UserID, req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role assigned"})
}

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jhunter5/Backend/internal/api/handlers"
	"github.com/jhunter5/Backend/internal/identity"
	"github.com/jhunter5/Backend/internal/services"
)

func authRouter(profiles services.IProfileService, idp identity.IIdentityClient) *gin.Engine {
	handler := handlers.NewRestAuthHandler(profiles, idp)
	r := gin.New()
	r.POST("/api/auth/verifyProfile", handler.VerifyProfile)
	r.GET("/api/auth/roles", handler.ListRoles)
	r.POST("/api/auth/assignRole", handler.AssignRole)
	return r
}

func TestRestAuthHandler_VerifyProfile(t *testing.T) {
	profiles := new(MockProfileService)
	r := authRouter(profiles, new(MockIdentityClient))

	role := "Tenant"
	profiles.On("VerifyProfile", mock.Anything, "auth0|tenant").Return(&services.ProfileStatus{HasProfile: true, Role: &role}, nil)
	profiles.On("VerifyProfile", mock.Anything, "auth0|nobody").Return(&services.ProfileStatus{}, nil)

	w := doJSON(r, http.MethodPost, "/api/auth/verifyProfile", map[string]any{"userId": "auth0|tenant"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hasProfile": true, "role": "Tenant"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/auth/verifyProfile", map[string]any{"userId": "auth0|nobody"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hasProfile": false, "role": null}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/auth/verifyProfile", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "userId: is required", decodeBody(t, w)["error"])

	profiles.AssertExpectations(t)
}

func TestRestAuthHandler_AssignRole(t *testing.T) {
	cases := []struct {
		name       string
		body       map[string]any
		err        error
		wantStatus int
		wantError  string
	}{
		{"assigned", map[string]any{"userId": "auth0|u", "role": "Landlord"}, nil, http.StatusOK, ""},
		{"unsupported role", map[string]any{"userId": "auth0|u", "role": "Admin"}, nil, http.StatusBadRequest, "role: failed oneof validation"},
		{"role missing upstream", map[string]any{"userId": "auth0|u", "role": "Tenant"}, identity.ErrRoleNotFound, http.StatusNotFound, "Role not found"},
		{"upstream forbidden", map[string]any{"userId": "auth0|u", "role": "Tenant"}, &identity.UpstreamError{Op: "assign role", Status: http.StatusForbidden}, http.StatusForbidden, "Identity provider request failed"},
		{"upstream down", map[string]any{"userId": "auth0|u", "role": "Tenant"}, &identity.UpstreamError{Op: "assign role", Status: http.StatusServiceUnavailable}, http.StatusBadGateway, "Identity provider request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idp := new(MockIdentityClient)
			r := authRouter(new(MockProfileService), idp)
			idp.On("AssignRole", mock.Anything, "auth0|u", mock.Anything).Return(tc.err).Maybe()

			w := doJSON(r, http.MethodPost, "/api/auth/assignRole", tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, decodeBody(t, w)["error"])
			}
		})
	}
}

func TestRestAuthHandler_ListRoles(t *testing.T) {
	idp := new(MockIdentityClient)
	r := authRouter(new(MockProfileService), idp)
	idp.On("ListRoles", mock.Anything).Return([]identity.Role{{ID: "rol_1", Name: "Landlord"}, {ID: "rol_2", Name: "Tenant"}}, nil)

	w := doJSON(r, http.MethodGet, "/api/auth/roles", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Landlord"`)
}

package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhunter5/Backend/internal/api/handlers"
	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/services"
)

func contextDeadline() error {
	return fmt.Errorf("find contracts: %w", context.DeadlineExceeded)
}

func applicationRouter(svc services.IApplicationService) *gin.Engine {
	handler := handlers.NewRestApplicationHandler(svc)
	r := gin.New()
	r.GET("/api/application", handler.ListApplications)
	r.GET("/api/application/:id", handler.GetApplication)
	r.PATCH("/api/application/:id/status", handler.UpdateStatus)
	return r
}

func TestRestApplicationHandler_UpdateStatus(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("allowed", func(t *testing.T) {
		svc := new(MockApplicationService)
		r := applicationRouter(svc)
		svc.On("Transition", mock.Anything, id, models.ApplicationUnderReview).
			Return(&models.Application{Base: models.Base{ID: id}, Status: models.ApplicationUnderReview}, nil)

		w := doJSON(r, http.MethodPatch, "/api/application/"+id.Hex()+"/status", map[string]any{"status": "under_review"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "under_review", decodeBody(t, w)["status"])
		svc.AssertExpectations(t)
	})

	t.Run("not allowed", func(t *testing.T) {
		svc := new(MockApplicationService)
		r := applicationRouter(svc)
		svc.On("Transition", mock.Anything, id, models.ApplicationSubmitted).
			Return(nil, services.InvalidTransition("Application", models.ApplicationApproved, models.ApplicationSubmitted))

		w := doJSON(r, http.MethodPatch, "/api/application/"+id.Hex()+"/status", map[string]any{"status": "submitted"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, `Application cannot move from "approved" to "submitted"`, decodeBody(t, w)["error"])
	})

	t.Run("missing status", func(t *testing.T) {
		svc := new(MockApplicationService)
		r := applicationRouter(svc)

		w := doJSON(r, http.MethodPatch, "/api/application/"+id.Hex()+"/status", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "status: is required", decodeBody(t, w)["error"])
		svc.AssertNotCalled(t, "Transition")
	})

	t.Run("unknown application", func(t *testing.T) {
		svc := new(MockApplicationService)
		r := applicationRouter(svc)
		svc.On("Transition", mock.Anything, id, models.ApplicationWithdrawn).Return(nil, services.NotFound("Application"))

		w := doJSON(r, http.MethodPatch, "/api/application/"+id.Hex()+"/status", map[string]any{"status": "withdrawn"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRestApplicationHandler_ListApplications(t *testing.T) {
	svc := new(MockApplicationService)
	r := applicationRouter(svc)

	svc.On("List", mock.Anything).Return([]models.Application{{}, {}}, nil)
	svc.On("ListByTenant", mock.Anything, "auth0|tenant").Return([]models.Application{}, nil)

	w := doJSON(r, http.MethodGet, "/api/application", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/application?tenantAuthID=auth0|tenant", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	svc.AssertExpectations(t)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/services"
)

type applicationRequest struct {
	models.Application
	Media      []services.AttachmentInput    `json:"media" binding:"dive"`
	References []models.ApplicationReference `json:"references" binding:"dive"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RestApplicationHandler serves rental applications.
type RestApplicationHandler struct {
	applicationService services.IApplicationService
}

func NewRestApplicationHandler(applicationService services.IApplicationService) *RestApplicationHandler {
	return &RestApplicationHandler{applicationService: applicationService}
}

// CreateApplication handles POST /api/application
// Media entries must carry a document type; references are stored alongside.
func (h *RestApplicationHandler) CreateApplication(c *gin.Context) {
	var req applicationRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Application.Base = models.Base{}

	details, err := h.applicationService.Create(c.Request.Context(), &req.Application, req.Media, req.References)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, details)
}

// ListApplications handles GET /api/application, optionally narrowed with ?tenantAuthID=
func (h *RestApplicationHandler) ListApplications(c *gin.Context) {
	var (
		applications []models.Application
		err          error
	)
	if tenant := c.Query("tenantAuthID"); tenant != "" {
		applications, err = h.applicationService.ListByTenant(c.Request.Context(), tenant)
	} else {
		applications, err = h.applicationService.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

func (h *RestApplicationHandler) ListByProperty(c *gin.Context) {
	propertyID, ok := objectIDParam(c, "propertyId")
	if !ok {
		return
	}
	applications, err := h.applicationService.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

func (h *RestApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	details, err := h.applicationService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *RestApplicationHandler) UpdateApplication(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.ApplicationPatch
	if !bindJSON(c, &patch) {
		return
	}
	application, err := h.applicationService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

// UpdateStatus handles PATCH /api/application/:id/status
// Moves not allowed by the application lifecycle are a 409.
func (h *RestApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	application, err := h.applicationService.Transition(c.Request.Context(), id, models.ApplicationStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

func (h *RestApplicationHandler) DeleteApplication(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.applicationService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application deleted"})
}

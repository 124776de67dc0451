package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/services"
)

type propertyRequest struct {
	models.Property
	Media []services.AttachmentInput `json:"media" binding:"dive"`
}

// RestPropertyHandler serves properties and the property read models.
type RestPropertyHandler struct {
	propertyService  services.IPropertyService
	dashboardService services.IDashboardService
}

func NewRestPropertyHandler(propertyService services.IPropertyService, dashboardService services.IDashboardService) *RestPropertyHandler {
	return &RestPropertyHandler{propertyService: propertyService, dashboardService: dashboardService}
}

// CreateProperty handles POST /api/property
// The body carries the property fields and a media array of base64 or data-URI files.
func (h *RestPropertyHandler) CreateProperty(c *gin.Context) {
	var req propertyRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Property.Base = models.Base{}

	created, err := h.propertyService.Create(c.Request.Context(), &req.Property, req.Media)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RestPropertyHandler) ListProperties(c *gin.Context) {
	properties, err := h.propertyService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// SearchAvailable handles POST /api/property/available
// An empty body behaves like no filters.
func (h *RestPropertyHandler) SearchAvailable(c *gin.Context) {
	var filter models.PropertyFilter
	if err := c.ShouldBindJSON(&filter); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return
	}
	properties, err := h.dashboardService.AvailableProperties(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ListAvailable handles GET /api/property/available/no-filters
func (h *RestPropertyHandler) ListAvailable(c *gin.Context) {
	properties, err := h.dashboardService.AvailableProperties(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ListByUser handles GET /api/property/user/:userId
// Each of the landlord's properties comes with its media and active contract.
func (h *RestPropertyHandler) ListByUser(c *gin.Context) {
	views, err := h.dashboardService.LandlordProperties(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// ListByLandlord handles GET /api/property/landlord/:landlordId
func (h *RestPropertyHandler) ListByLandlord(c *gin.Context) {
	properties, err := h.propertyService.ListByLandlord(c.Request.Context(), c.Param("landlordId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// GetProperty handles GET /api/property/:id
// The response joins the property's media and its active contract, which may be null.
func (h *RestPropertyHandler) GetProperty(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.dashboardService.PropertyDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RestPropertyHandler) UpdateProperty(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.PropertyPatch
	if !bindJSON(c, &patch) {
		return
	}
	property, err := h.propertyService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *RestPropertyHandler) DeleteProperty(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.propertyService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

// RestPropertyMediaHandler serves individual property media records.
type RestPropertyMediaHandler struct {
	mediaService services.IPropertyMediaService
}

func NewRestPropertyMediaHandler(mediaService services.IPropertyMediaService) *RestPropertyMediaHandler {
	return &RestPropertyMediaHandler{mediaService: mediaService}
}

type propertyMediaRequest struct {
	PropertyID primitive.ObjectID `json:"propertyId" binding:"required"`
	services.AttachmentInput
}

// CreateMedia handles POST /api/propertyMedia
func (h *RestPropertyMediaHandler) CreateMedia(c *gin.Context) {
	var req propertyMediaRequest
	if !bindJSON(c, &req) {
		return
	}
	media, err := h.mediaService.Create(c.Request.Context(), req.PropertyID, req.AttachmentInput)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

func (h *RestPropertyMediaHandler) ListMedia(c *gin.Context) {
	media, err := h.mediaService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

func (h *RestPropertyMediaHandler) ListByProperty(c *gin.Context) {
	propertyID, ok := objectIDParam(c, "propertyId")
	if !ok {
		return
	}
	media, err := h.mediaService.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

func (h *RestPropertyMediaHandler) GetMedia(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	media, err := h.mediaService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

func (h *RestPropertyMediaHandler) UpdateMedia(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.PropertyMediaPatch
	if !bindJSON(c, &patch) {
		return
	}
	media, err := h.mediaService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

func (h *RestPropertyMediaHandler) DeleteMedia(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.mediaService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property media deleted"})
}

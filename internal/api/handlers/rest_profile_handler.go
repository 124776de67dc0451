package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/services"
)

type landlordRequest struct {
	models.Landlord
	AvatarFile *services.AttachmentInput `json:"avatarFile"`
}

type tenantRequest struct {
	models.Tenant
	AvatarFile *services.AttachmentInput `json:"avatarFile"`
}

// RestLandlordHandler serves landlord profiles and the landlord dashboards. :id is the landlord's authID.
type RestLandlordHandler struct {
	landlordService  services.ILandlordService
	dashboardService services.IDashboardService
}

func NewRestLandlordHandler(landlordService services.ILandlordService, dashboardService services.IDashboardService) *RestLandlordHandler {
	return &RestLandlordHandler{landlordService: landlordService, dashboardService: dashboardService}
}

// CreateLandlord handles POST /api/landlord
func (h *RestLandlordHandler) CreateLandlord(c *gin.Context) {
	var req landlordRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Landlord.Base = models.Base{}

	landlord, err := h.landlordService.Create(c.Request.Context(), &req.Landlord, req.AvatarFile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, landlord)
}

func (h *RestLandlordHandler) ListLandlords(c *gin.Context) {
	landlords, err := h.landlordService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, landlords)
}

func (h *RestLandlordHandler) GetLandlord(c *gin.Context) {
	landlord, err := h.landlordService.FindByAuthID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, landlord)
}

func (h *RestLandlordHandler) UpdateLandlord(c *gin.Context) {
	var patch models.LandlordPatch
	if !bindJSON(c, &patch) {
		return
	}
	landlord, err := h.landlordService.Update(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, landlord)
}

func (h *RestLandlordHandler) DeleteLandlord(c *gin.Context) {
	if err := h.landlordService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Landlord deleted"})
}

// GetActiveTenants handles GET /api/landlord/:id/tenants/active
func (h *RestLandlordHandler) GetActiveTenants(c *gin.Context) {
	view, err := h.dashboardService.ActiveTenantsByLandlord(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetCandidates handles GET /api/landlord/:id/candidates
func (h *RestLandlordHandler) GetCandidates(c *gin.Context) {
	view, err := h.dashboardService.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RestTenantHandler serves tenant profiles. :id is the tenant's authID.
type RestTenantHandler struct {
	tenantService services.ITenantService
}

func NewRestTenantHandler(tenantService services.ITenantService) *RestTenantHandler {
	return &RestTenantHandler{tenantService: tenantService}
}

// CreateTenant handles POST /api/tenant
func (h *RestTenantHandler) CreateTenant(c *gin.Context) {
	var req tenantRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Tenant.Base = models.Base{}

	tenant, err := h.tenantService.Create(c.Request.Context(), &req.Tenant, req.AvatarFile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

func (h *RestTenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.tenantService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

func (h *RestTenantHandler) GetTenant(c *gin.Context) {
	tenant, err := h.tenantService.FindByAuthID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *RestTenantHandler) UpdateTenant(c *gin.Context) {
	var patch models.TenantPatch
	if !bindJSON(c, &patch) {
		return
	}
	tenant, err := h.tenantService.Update(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *RestTenantHandler) DeleteTenant(c *gin.Context) {
	if err := h.tenantService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tenant deleted"})
}

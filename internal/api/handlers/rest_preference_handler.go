package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/services"
)

// RestPreferenceHandler serves landlord and tenant matching preferences.
type RestPreferenceHandler struct {
	preferenceService services.IPreferenceService
}

func NewRestPreferenceHandler(preferenceService services.IPreferenceService) *RestPreferenceHandler {
	return &RestPreferenceHandler{preferenceService: preferenceService}
}

func (h *RestPreferenceHandler) CreateLandlordPreference(c *gin.Context) {
	var pref models.LandlordPreference
	if !bindJSON(c, &pref) {
		return
	}
	pref.Base = models.Base{}
	created, err := h.preferenceService.CreateLandlordPreference(c.Request.Context(), &pref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RestPreferenceHandler) ListLandlordPreferences(c *gin.Context) {
	prefs, err := h.preferenceService.ListLandlordPreferences(c.Request.Context(), "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// ListByLandlord handles GET /api/preferences/landlord/landlord/:landlordId
func (h *RestPreferenceHandler) ListByLandlord(c *gin.Context) {
	prefs, err := h.preferenceService.ListLandlordPreferences(c.Request.Context(), c.Param("landlordId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *RestPreferenceHandler) GetLandlordPreference(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	pref, err := h.preferenceService.FindLandlordPreference(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *RestPreferenceHandler) UpdateLandlordPreference(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.LandlordPreferencePatch
	if !bindJSON(c, &patch) {
		return
	}
	pref, err := h.preferenceService.UpdateLandlordPreference(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *RestPreferenceHandler) DeleteLandlordPreference(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.preferenceService.DeleteLandlordPreference(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Landlord preference deleted"})
}

func (h *RestPreferenceHandler) CreateTenantPreference(c *gin.Context) {
	var pref models.TenantPreference
	if !bindJSON(c, &pref) {
		return
	}
	pref.Base = models.Base{}
	created, err := h.preferenceService.CreateTenantPreference(c.Request.Context(), &pref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RestPreferenceHandler) ListTenantPreferences(c *gin.Context) {
	prefs, err := h.preferenceService.ListTenantPreferences(c.Request.Context(), "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// ListByTenant handles GET /api/preferences/tenant/tenant/:tenantId
func (h *RestPreferenceHandler) ListByTenant(c *gin.Context) {
	prefs, err := h.preferenceService.ListTenantPreferences(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *RestPreferenceHandler) GetTenantPreference(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	pref, err := h.preferenceService.FindTenantPreference(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *RestPreferenceHandler) UpdateTenantPreference(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.TenantPreferencePatch
	if !bindJSON(c, &patch) {
		return
	}
	pref, err := h.preferenceService.UpdateTenantPreference(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *RestPreferenceHandler) DeleteTenantPreference(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.preferenceService.DeleteTenantPreference(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tenant preference deleted"})
}

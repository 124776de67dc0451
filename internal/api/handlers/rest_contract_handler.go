package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/services"
)

type contractRequest struct {
	models.Contract
	Documents []services.AttachmentInput `json:"documents" binding:"dive"`
}

// RestContractHandler serves rental contracts.
type RestContractHandler struct {
	contractService services.IContractService
}

func NewRestContractHandler(contractService services.IContractService) *RestContractHandler {
	return &RestContractHandler{contractService: contractService}
}

// CreateContract handles POST /api/contract
// Overlapping an existing contract on the same property is a 409.
func (h *RestContractHandler) CreateContract(c *gin.Context) {
	var req contractRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Contract.Base = models.Base{}

	details, err := h.contractService.Create(c.Request.Context(), &req.Contract, req.Documents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, details)
}

func (h *RestContractHandler) GetContract(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	details, err := h.contractService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// ListByTenant handles GET /api/contract/tenant/:id
func (h *RestContractHandler) ListByTenant(c *gin.Context) {
	contracts, err := h.contractService.ListByTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// ListActiveByTenant handles GET /api/contract/tenant/active/:id
func (h *RestContractHandler) ListActiveByTenant(c *gin.Context) {
	contracts, err := h.contractService.ListActiveByTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *RestContractHandler) ListByProperty(c *gin.Context) {
	propertyID, ok := objectIDParam(c, "propertyId")
	if !ok {
		return
	}
	contracts, err := h.contractService.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// ListByPropertyAndTenant handles GET /api/contract/property/:propertyId/user/:tenantId
func (h *RestContractHandler) ListByPropertyAndTenant(c *gin.Context) {
	propertyID, ok := objectIDParam(c, "propertyId")
	if !ok {
		return
	}
	contracts, err := h.contractService.ListByPropertyAndTenant(c.Request.Context(), propertyID, c.Param("tenantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// UpdateContract handles PUT /api/contract/:id
func (h *RestContractHandler) UpdateContract(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.ContractPatch
	if !bindJSON(c, &patch) {
		return
	}
	contract, err := h.contractService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// TerminateContract handles POST /api/contract/:id/terminate
func (h *RestContractHandler) TerminateContract(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	contract, err := h.contractService.Terminate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *RestContractHandler) DeleteContract(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.contractService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

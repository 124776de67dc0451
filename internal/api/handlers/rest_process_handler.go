package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/services"
)

// RestPaymentHandler serves rent payments.
type RestPaymentHandler struct {
	paymentService services.IPaymentService
}

func NewRestPaymentHandler(paymentService services.IPaymentService) *RestPaymentHandler {
	return &RestPaymentHandler{paymentService: paymentService}
}

func (h *RestPaymentHandler) CreatePayment(c *gin.Context) {
	var payment models.Payment
	if !bindJSON(c, &payment) {
		return
	}
	payment.Base = models.Base{}
	created, err := h.paymentService.Create(c.Request.Context(), &payment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListPayments handles GET /api/payment, optionally narrowed with ?contractId=
func (h *RestPaymentHandler) ListPayments(c *gin.Context) {
	var (
		payments []models.Payment
		err      error
	)
	if raw := c.Query("contractId"); raw != "" {
		contractID, perr := parseQueryID(c, "contractId")
		if perr != nil {
			return
		}
		payments, err = h.paymentService.ListByContract(c.Request.Context(), contractID)
	} else {
		payments, err = h.paymentService.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *RestPaymentHandler) GetPayment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *RestPaymentHandler) UpdatePayment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.PaymentPatch
	if !bindJSON(c, &patch) {
		return
	}
	payment, err := h.paymentService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *RestPaymentHandler) DeletePayment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.paymentService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted"})
}

// RestReviewHandler serves landlord reviews.
type RestReviewHandler struct {
	reviewService services.IReviewService
}

func NewRestReviewHandler(reviewService services.IReviewService) *RestReviewHandler {
	return &RestReviewHandler{reviewService: reviewService}
}

func (h *RestReviewHandler) CreateReview(c *gin.Context) {
	var review models.Review
	if !bindJSON(c, &review) {
		return
	}
	review.Base = models.Base{}
	created, err := h.reviewService.Create(c.Request.Context(), &review)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListReviews handles GET /api/review, optionally narrowed with ?landlordAuthID=
func (h *RestReviewHandler) ListReviews(c *gin.Context) {
	var (
		reviews []models.Review
		err     error
	)
	if landlord := c.Query("landlordAuthID"); landlord != "" {
		reviews, err = h.reviewService.ListByLandlord(c.Request.Context(), landlord)
	} else {
		reviews, err = h.reviewService.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *RestReviewHandler) GetReview(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	review, err := h.reviewService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *RestReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.ReviewPatch
	if !bindJSON(c, &patch) {
		return
	}
	review, err := h.reviewService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *RestReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// RestRepairHandler serves maintenance requests.
type RestRepairHandler struct {
	repairService services.IRepairService
}

func NewRestRepairHandler(repairService services.IRepairService) *RestRepairHandler {
	return &RestRepairHandler{repairService: repairService}
}

// CreateRepair handles POST /api/repair. New repairs are always reported.
func (h *RestRepairHandler) CreateRepair(c *gin.Context) {
	var repair models.Repair
	if !bindJSON(c, &repair) {
		return
	}
	repair.Base = models.Base{}
	created, err := h.repairService.Create(c.Request.Context(), &repair)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListRepairs handles GET /api/repair, optionally narrowed with ?propertyId=
func (h *RestRepairHandler) ListRepairs(c *gin.Context) {
	var (
		repairs []models.Repair
		err     error
	)
	if raw := c.Query("propertyId"); raw != "" {
		propertyID, perr := parseQueryID(c, "propertyId")
		if perr != nil {
			return
		}
		repairs, err = h.repairService.ListByProperty(c.Request.Context(), propertyID)
	} else {
		repairs, err = h.repairService.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repairs)
}

func (h *RestRepairHandler) GetRepair(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	repair, err := h.repairService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

func (h *RestRepairHandler) UpdateRepair(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.RepairPatch
	if !bindJSON(c, &patch) {
		return
	}
	repair, err := h.repairService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

// UpdateStatus handles PATCH /api/repair/:id/status
func (h *RestRepairHandler) UpdateStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	repair, err := h.repairService.Transition(c.Request.Context(), id, models.RepairStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

func (h *RestRepairHandler) DeleteRepair(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.repairService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Repair deleted"})
}

// RestAppointmentHandler serves property visits.
type RestAppointmentHandler struct {
	appointmentService services.IAppointmentService
}

func NewRestAppointmentHandler(appointmentService services.IAppointmentService) *RestAppointmentHandler {
	return &RestAppointmentHandler{appointmentService: appointmentService}
}

// CreateAppointment handles POST /api/appointment. The landlord must exist.
func (h *RestAppointmentHandler) CreateAppointment(c *gin.Context) {
	var appointment models.Appointment
	if !bindJSON(c, &appointment) {
		return
	}
	appointment.Base = models.Base{}
	created, err := h.appointmentService.Create(c.Request.Context(), &appointment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetAppointment handles GET /api/appointment/:id with the landlord, tenant and property joined.
func (h *RestAppointmentHandler) GetAppointment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	details, err := h.appointmentService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// ListByLandlord handles GET /api/appointment/landlord/:landlordAuthID (current year only).
func (h *RestAppointmentHandler) ListByLandlord(c *gin.Context) {
	appointments, err := h.appointmentService.ListThisYearByLandlord(c.Request.Context(), c.Param("landlordAuthID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// ListByTenant handles GET /api/appointment/tenant/:tenantAuthID (current year only).
func (h *RestAppointmentHandler) ListByTenant(c *gin.Context) {
	appointments, err := h.appointmentService.ListThisYearByTenant(c.Request.Context(), c.Param("tenantAuthID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *RestAppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var patch models.AppointmentPatch
	if !bindJSON(c, &patch) {
		return
	}
	appointment, err := h.appointmentService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *RestAppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.appointmentService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted"})
}

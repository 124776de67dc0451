package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhunter5/Backend/internal/models"
)

func TestYearBounds(t *testing.T) {
	start, end := yearBounds(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, date(2024, 1, 1), start)
	assert.Equal(t, date(2025, 1, 1), end)
}

func TestApplicationService_Lifecycle(t *testing.T) {
	f := setupBooking(t, "testdb_application_lifecycle")
	ctx := context.Background()
	store := newFakeStorage()
	svc := NewApplicationService(f.db, testConfig(), store)

	_, err := svc.Create(ctx, &models.Application{PropertyID: f.property.ID, TenantAuthID: "auth0|renter"},
		[]AttachmentInput{{Content: textInput("id.pdf", "x").Content, Filename: "id.pdf", Type: "passport"}}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	doc := textInput("id.pdf", "%PDF")
	doc.Type = string(models.MediaIdentityDocument)
	created, err := svc.Create(ctx,
		&models.Application{PropertyID: f.property.ID, TenantAuthID: "auth0|renter", Status: models.ApplicationApproved, Score: 8},
		[]AttachmentInput{doc},
		[]models.ApplicationReference{{Name: "Pedro", LastName: "Diaz", Cellphone: "3005550000", Relationship: "friend"}},
	)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationSubmitted, created.Application.Status)
	require.Len(t, created.Media, 1)
	require.Len(t, created.References, 1)
	assert.Equal(t, created.Application.ID, created.References[0].ApplicationID)

	id := created.Application.ID
	_, err = svc.Transition(ctx, id, models.ApplicationApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	app, err := svc.Transition(ctx, id, models.ApplicationUnderReview)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationUnderReview, app.Status)

	app, err = svc.Transition(ctx, id, models.ApplicationApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, app.Status)

	_, err = svc.Transition(ctx, id, models.ApplicationWithdrawn)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	details, err := svc.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, details.Media, 1)
	assert.Len(t, details.References, 1)
}

func TestRepairService_Transitions(t *testing.T) {
	f := setupBooking(t, "testdb_repair_transitions")
	ctx := context.Background()
	svc := NewRepairService(f.db)

	repair, err := svc.Create(ctx, &models.Repair{
		PropertyID:  f.property.ID,
		Description: "Leaking faucet",
		Priority:    models.PriorityMedium,
		Status:      models.RepairResolved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RepairReported, repair.Status)
	assert.False(t, repair.ReportDate.IsZero())

	_, err = svc.Transition(ctx, repair.ID, models.RepairResolved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(ctx, repair.ID, models.RepairInProgress)
	require.NoError(t, err)
	resolved, err := svc.Transition(ctx, repair.ID, models.RepairResolved)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolutionDate)

	_, err = svc.Transition(ctx, repair.ID, models.RepairCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(ctx, repair.ID, "fixed")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, &models.Repair{PropertyID: primitive.NewObjectID(), Description: "x", Priority: models.PriorityLow})
	assert.True(t, IsNotFound(err))
}

func TestReviewService_RecomputesLandlordRating(t *testing.T) {
	f := setupBooking(t, "testdb_review_rating")
	ctx := context.Background()
	svc := NewReviewService(f.db)
	landlords := NewLandlordService(f.db, testConfig(), newFakeStorage(), &fakeQueue{})

	first, err := svc.Create(ctx, &models.Review{LandlordAuthID: "auth0|owner", TenantAuthID: "auth0|renter", Rating: 8})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Review{LandlordAuthID: "auth0|owner", TenantAuthID: "auth0|renter", Rating: 6})
	require.NoError(t, err)

	landlord, err := landlords.FindByAuthID(ctx, "auth0|owner")
	require.NoError(t, err)
	assert.InDelta(t, 7.0, landlord.AvgRating, 0.001)

	rating := 10.0
	_, err = svc.Update(ctx, first.ID, &models.ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	landlord, err = landlords.FindByAuthID(ctx, "auth0|owner")
	require.NoError(t, err)
	assert.InDelta(t, 8.0, landlord.AvgRating, 0.001)

	require.NoError(t, svc.Delete(ctx, first.ID))
	landlord, err = landlords.FindByAuthID(ctx, "auth0|owner")
	require.NoError(t, err)
	assert.InDelta(t, 6.0, landlord.AvgRating, 0.001)

	_, err = svc.Create(ctx, &models.Review{LandlordAuthID: "auth0|ghost", TenantAuthID: "auth0|renter", Rating: 5})
	assert.True(t, IsNotFound(err))
}

func TestPaymentService_RequiresMatchingContract(t *testing.T) {
	f := setupBooking(t, "testdb_payment")
	ctx := context.Background()
	svc := NewPaymentService(f.db)

	contract, err := f.svc.Create(ctx, f.contract(date(2024, 1, 1), date(2024, 12, 31)), nil)
	require.NoError(t, err)

	payment := &models.Payment{
		ContractID:    contract.Contract.ID,
		TenantAuthID:  "auth0|renter",
		Amount:        1000,
		PaymentDate:   date(2024, 2, 1),
		Status:        models.PaymentCompleted,
		PaymentMethod: models.PaymentTransfer,
	}
	_, err = svc.Create(ctx, payment)
	require.NoError(t, err)

	other := *payment
	other.Base = models.Base{}
	other.TenantAuthID = "auth0|someone-else"
	_, err = svc.Create(ctx, &other)
	assert.ErrorIs(t, err, ErrInvalidInput)

	other.ContractID = primitive.NewObjectID()
	_, err = svc.Create(ctx, &other)
	assert.True(t, IsNotFound(err))

	list, err := svc.ListByContract(ctx, contract.Contract.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAppointmentService(t *testing.T) {
	f := setupBooking(t, "testdb_appointment")
	ctx := context.Background()
	svc := NewAppointmentService(f.db).(*appointmentService)
	svc.now = func() time.Time { return date(2024, 6, 15) }

	for _, d := range []time.Time{date(2023, 12, 31), date(2024, 1, 1), date(2024, 12, 31), date(2025, 1, 1)} {
		_, err := svc.Create(ctx, &models.Appointment{
			LandlordAuthID: "auth0|owner",
			TenantAuthID:   "auth0|renter",
			PropertyID:     f.property.ID,
			Title:          "Visit",
			Date:           d,
			Time:           "10:00",
		})
		require.NoError(t, err)
	}

	byLandlord, err := svc.ListThisYearByLandlord(ctx, "auth0|owner")
	require.NoError(t, err)
	assert.Len(t, byLandlord, 2)
	byTenant, err := svc.ListThisYearByTenant(ctx, "auth0|renter")
	require.NoError(t, err)
	assert.Len(t, byTenant, 2)

	details, err := svc.FindByID(ctx, byLandlord[0].ID)
	require.NoError(t, err)
	require.NotNil(t, details.Landlord)
	require.NotNil(t, details.Tenant)
	require.NotNil(t, details.Property)

	_, err = svc.Create(ctx, &models.Appointment{LandlordAuthID: "auth0|ghost", TenantAuthID: "auth0|renter", PropertyID: f.property.ID, Title: "x", Date: date(2024, 2, 2), Time: "9"})
	assert.True(t, IsNotFound(err))
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatus_Transitions(t *testing.T) {
	assert.True(t, ApplicationSubmitted.CanTransitionTo(ApplicationUnderReview))
	assert.True(t, ApplicationUnderReview.CanTransitionTo(ApplicationApproved))
	assert.True(t, ApplicationUnderReview.CanTransitionTo(ApplicationRejected))

	assert.False(t, ApplicationSubmitted.CanTransitionTo(ApplicationApproved), "must be reviewed first")
	assert.False(t, ApplicationApproved.CanTransitionTo(ApplicationRejected), "approved is terminal")
	assert.False(t, ApplicationRejected.CanTransitionTo(ApplicationUnderReview))
	assert.False(t, ApplicationSubmitted.CanTransitionTo(ApplicationSubmitted))
	assert.False(t, ApplicationStatus("pending").CanTransitionTo(ApplicationUnderReview))
}

func TestRepairStatus_Transitions(t *testing.T) {
	assert.True(t, RepairReported.CanTransitionTo(RepairInProgress))
	assert.True(t, RepairInProgress.CanTransitionTo(RepairResolved))
	assert.True(t, RepairReported.CanTransitionTo(RepairCancelled))

	assert.False(t, RepairReported.CanTransitionTo(RepairResolved))
	assert.False(t, RepairResolved.CanTransitionTo(RepairInProgress))
	assert.False(t, RepairCancelled.CanTransitionTo(RepairReported))
}

func TestContractStatus_Transitions(t *testing.T) {
	assert.True(t, ContractDerived.CanTransitionTo(ContractTerminated))
	assert.True(t, ContractActive.CanTransitionTo(ContractExpired))
	assert.False(t, ContractTerminated.CanTransitionTo(ContractActive))
	assert.False(t, ContractExpired.CanTransitionTo(ContractTerminated))
}

func TestEnums_Valid(t *testing.T) {
	var cases = []struct {
		value Enum
		valid bool
	}{
		{ApplicationUnderReview, true},
		{ApplicationStatus("1"), false},
		{RepairResolved, true},
		{RepairStatus(""), false},
		{ContractDerived, true},
		{ContractStatus("paused"), false},
		{PaymentCompleted, true},
		{PaymentStatus("2"), false},
		{PaymentTransfer, true},
		{PaymentMethod("cheque"), false},
		{PriorityHigh, true},
		{RepairPriority("urgent"), false},
		{GenderFemale, true},
		{Gender("X"), false},
		{MaritalCivilUnion, true},
		{MaritalStatus("Unknown"), false},
		{RatingNone, true},
		{TenantRating("Z"), false},
		{MediaBankStatements, true},
		{ApplicationMediaType("Selfie"), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.valid, c.value.Valid(), "%v", c.value)
	}
}

func TestContract_DurationMonths(t *testing.T) {
	c := Contract{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 12, c.DurationMonths())

	c.EndDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, c.DurationMonths())

	c.EndDate = c.StartDate
	assert.Equal(t, 0, c.DurationMonths())
}

func TestBase_Touch(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var b Base
	b.Touch(created)
	b.Touch(created.Add(time.Hour))

	assert.Equal(t, created, b.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), b.UpdatedAt)

	b.GenIDIfEmpty()
	id := b.ID
	b.GenIDIfEmpty()
	assert.Equal(t, id, b.ID)
}

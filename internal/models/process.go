package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records a rent payment against a contract.
type Payment struct {
	Base          `bson:",inline"`
	ContractID    primitive.ObjectID `bson:"contract_id" json:"contractId" binding:"required"`
	TenantAuthID  string             `bson:"tenant_auth_id" json:"tenantAuthID" binding:"required"`
	Amount        float64            `bson:"amount" json:"amount" binding:"required,gt=0"`
	PaymentDate   time.Time          `bson:"payment_date" json:"paymentDate" binding:"required"`
	Status        PaymentStatus      `bson:"status" json:"status" binding:"required,enum"`
	PaymentMethod PaymentMethod      `bson:"payment_method" json:"paymentMethod" binding:"required,enum"`
	Receipt       string             `bson:"receipt,omitempty" json:"receipt,omitempty"`
}

type PaymentPatch struct {
	Amount        *float64       `bson:"amount,omitempty" json:"amount" binding:"omitempty,gt=0"`
	PaymentDate   *time.Time     `bson:"payment_date,omitempty" json:"paymentDate"`
	Status        *PaymentStatus `bson:"status,omitempty" json:"status" binding:"omitempty,enum"`
	PaymentMethod *PaymentMethod `bson:"payment_method,omitempty" json:"paymentMethod" binding:"omitempty,enum"`
	Receipt       *string        `bson:"receipt,omitempty" json:"receipt"`
}

// Repair is a maintenance request on a property.
type Repair struct {
	Base           `bson:",inline"`
	PropertyID     primitive.ObjectID `bson:"property_id" json:"propertyId" binding:"required"`
	Description    string             `bson:"description" json:"description" binding:"required,max=1000"`
	Priority       RepairPriority     `bson:"priority" json:"priority" binding:"required,enum"`
	Status         RepairStatus       `bson:"status" json:"status"`
	ReportDate     time.Time          `bson:"report_date" json:"reportDate"`
	ResolutionDate *time.Time         `bson:"resolution_date,omitempty" json:"resolutionDate,omitempty"`
	Cost           float64            `bson:"cost" json:"cost" binding:"gte=0"`
}

type RepairPatch struct {
	Description *string         `bson:"description,omitempty" json:"description" binding:"omitempty,max=1000"`
	Priority    *RepairPriority `bson:"priority,omitempty" json:"priority" binding:"omitempty,enum"`
	Cost        *float64        `bson:"cost,omitempty" json:"cost" binding:"omitempty,gte=0"`
}

// Review is a tenant's rating of a landlord.
type Review struct {
	Base           `bson:",inline"`
	LandlordAuthID string    `bson:"landlord_auth_id" json:"landlordAuthID" binding:"required"`
	TenantAuthID   string    `bson:"tenant_auth_id" json:"tenantAuthID" binding:"required"`
	Comment        string    `bson:"comment" json:"comment" binding:"max=1000"`
	Rating         float64   `bson:"rating" json:"rating" binding:"gte=0,lte=10"`
	Date           time.Time `bson:"date" json:"date"`
}

type ReviewPatch struct {
	Comment *string  `bson:"comment,omitempty" json:"comment" binding:"omitempty,max=1000"`
	Rating  *float64 `bson:"rating,omitempty" json:"rating" binding:"omitempty,gte=0,lte=10"`
}

// Appointment is a scheduled property visit.
type Appointment struct {
	Base           `bson:",inline"`
	LandlordAuthID string             `bson:"landlord_auth_id" json:"landLordAuthID" binding:"required"`
	TenantAuthID   string             `bson:"tenant_auth_id" json:"tenantAuthID" binding:"required"`
	PropertyID     primitive.ObjectID `bson:"property_id" json:"propertyID" binding:"required"`
	Title          string             `bson:"title" json:"title" binding:"required,max=100"`
	Date           time.Time          `bson:"date" json:"date" binding:"required"`
	Time           string             `bson:"time" json:"time" binding:"required"`
	Description    string             `bson:"description" json:"description" binding:"max=1000"`
}

type AppointmentPatch struct {
	Title       *string    `bson:"title,omitempty" json:"title" binding:"omitempty,max=100"`
	Date        *time.Time `bson:"date,omitempty" json:"date"`
	Time        *string    `bson:"time,omitempty" json:"time"`
	Description *string    `bson:"description,omitempty" json:"description" binding:"omitempty,max=1000"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contract binds a tenant to a property for a date range at a monthly rent.
// Whether it is active is derived from the dates; Status only overrides that derivation.
type Contract struct {
	Base         `bson:",inline"`
	PropertyID   primitive.ObjectID `bson:"property_id" json:"propertyId" binding:"required"`
	TenantAuthID string             `bson:"tenant_auth_id" json:"tenantAuthID" binding:"required"`
	StartDate    time.Time          `bson:"start_date" json:"startDate" binding:"required"`
	EndDate      time.Time          `bson:"end_date" json:"endDate" binding:"required,gtfield=StartDate"`
	MonthlyRent  float64            `bson:"monthly_rent" json:"monthlyRent" binding:"required,gt=0"`
	Status       ContractStatus     `bson:"status" json:"status" binding:"omitempty,enum"`
	Duration     int                `bson:"duration" json:"duration"`
}

// DurationMonths returns the number of started months between StartDate and EndDate.
func (c *Contract) DurationMonths() int {
	if !c.EndDate.After(c.StartDate) {
		return 0
	}
	months := (c.EndDate.Year()-c.StartDate.Year())*12 + int(c.EndDate.Month()-c.StartDate.Month())
	if c.EndDate.Day() > c.StartDate.Day() {
		months++
	}
	if months < 1 {
		months = 1
	}
	return months
}

type ContractPatch struct {
	StartDate   *time.Time `bson:"start_date,omitempty" json:"startDate"`
	EndDate     *time.Time `bson:"end_date,omitempty" json:"endDate"`
	MonthlyRent *float64   `bson:"monthly_rent,omitempty" json:"monthlyRent" binding:"omitempty,gt=0"`
}

// ContractDocument is a signed contract file or annex stored in object storage.
type ContractDocument struct {
	Base         `bson:",inline"`
	ContractID   primitive.ObjectID `bson:"contract_id" json:"contractId"`
	DocumentType string             `bson:"document_type" json:"documentType"`
	DocumentURL  string             `bson:"document_url" json:"documentUrl"`
	ObjectKey    string             `bson:"object_key,omitempty" json:"-"`
}

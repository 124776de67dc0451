package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application is a tenant's request to rent a property.
type Application struct {
	Base                `bson:",inline"`
	PropertyID          primitive.ObjectID `bson:"property_id" json:"propertyId" binding:"required"`
	TenantAuthID        string             `bson:"tenant_auth_id" json:"tenantAuthID" binding:"required"`
	PersonalDescription string             `bson:"personal_description" json:"personalDescription" binding:"max=1000"`
	Status              ApplicationStatus  `bson:"status" json:"status"`
	Score               float64            `bson:"score" json:"score" binding:"gte=0,lte=10"`
}

type ApplicationPatch struct {
	PersonalDescription *string  `bson:"personal_description,omitempty" json:"personalDescription" binding:"omitempty,max=1000"`
	Score               *float64 `bson:"score,omitempty" json:"score" binding:"omitempty,gte=0,lte=10"`
}

// ApplicationReference is a personal contact vouching for the applicant.
type ApplicationReference struct {
	Base          `bson:",inline"`
	ApplicationID primitive.ObjectID `bson:"application_id" json:"applicationId"`
	Name          string             `bson:"name" json:"name" binding:"required,min=2,max=50"`
	LastName      string             `bson:"last_name" json:"lastname" binding:"required,min=2,max=50"`
	Cellphone     string             `bson:"cellphone" json:"cellphone" binding:"required,phone"`
	Relationship  string             `bson:"relationship" json:"relationship" binding:"required"`
}

// ApplicationMedia is a supporting document uploaded with an application.
type ApplicationMedia struct {
	Base          `bson:",inline"`
	ApplicationID primitive.ObjectID   `bson:"application_id" json:"applicationId"`
	MediaType     string               `bson:"media_type" json:"mediaType"`
	Type          ApplicationMediaType `bson:"type" json:"type"`
	MediaURL      string               `bson:"media_url" json:"mediaUrl"`
	ObjectKey     string               `bson:"object_key,omitempty" json:"-"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property is a rentable unit owned by a landlord, referenced by the landlord's AuthID.
type Property struct {
	Base           `bson:",inline"`
	LandlordAuthID string  `bson:"landlord_auth_id" json:"landlordAuthID" binding:"required"`
	Address        string  `bson:"address" json:"address" binding:"required,max=200"`
	City           string  `bson:"city" json:"city" binding:"required,min=3,max=50"`
	State          string  `bson:"state" json:"state" binding:"required,min=3,max=50"`
	Type           string  `bson:"type" json:"type" binding:"required,min=3,max=50"`
	Rooms          int     `bson:"rooms" json:"rooms" binding:"gte=0"`
	Parking        int     `bson:"parking" json:"parking" binding:"gte=0"`
	SquareMeters   float64 `bson:"square_meters" json:"squareMeters" binding:"required,gt=0"`
	Tier           int     `bson:"tier" json:"tier" binding:"gte=0,lte=6"`
	Bathrooms      int     `bson:"bathrooms" json:"bathrooms" binding:"gte=0"`
	Age            int     `bson:"age" json:"age" binding:"gte=0"`
	Floors         int     `bson:"floors" json:"floors" binding:"gte=0"`
	Description    string  `bson:"description" json:"description" binding:"max=1000"`
	IsAvailable    bool    `bson:"is_available" json:"isAvailable"`
	RentPrice      float64 `bson:"rent_price" json:"rentPrice" binding:"gte=0"`
}

// PropertyPatch carries the updatable property fields; nil fields are left unchanged.
type PropertyPatch struct {
	Address      *string  `bson:"address,omitempty" json:"address" binding:"omitempty,max=200"`
	City         *string  `bson:"city,omitempty" json:"city" binding:"omitempty,min=3,max=50"`
	State        *string  `bson:"state,omitempty" json:"state" binding:"omitempty,min=3,max=50"`
	Type         *string  `bson:"type,omitempty" json:"type" binding:"omitempty,min=3,max=50"`
	Rooms        *int     `bson:"rooms,omitempty" json:"rooms" binding:"omitempty,gte=0"`
	Parking      *int     `bson:"parking,omitempty" json:"parking" binding:"omitempty,gte=0"`
	SquareMeters *float64 `bson:"square_meters,omitempty" json:"squareMeters" binding:"omitempty,gt=0"`
	Tier         *int     `bson:"tier,omitempty" json:"tier" binding:"omitempty,gte=0,lte=6"`
	Bathrooms    *int     `bson:"bathrooms,omitempty" json:"bathrooms" binding:"omitempty,gte=0"`
	Age          *int     `bson:"age,omitempty" json:"age" binding:"omitempty,gte=0"`
	Floors       *int     `bson:"floors,omitempty" json:"floors" binding:"omitempty,gte=0"`
	Description  *string  `bson:"description,omitempty" json:"description" binding:"omitempty,max=1000"`
	IsAvailable  *bool    `bson:"is_available,omitempty" json:"isAvailable"`
	RentPrice    *float64 `bson:"rent_price,omitempty" json:"rentPrice" binding:"omitempty,gte=0"`
}

// PropertyMedia is a stored photo, video or document attached to a property.
type PropertyMedia struct {
	Base        `bson:",inline"`
	PropertyID  primitive.ObjectID `bson:"property_id" json:"propertyId" binding:"required"`
	MediaType   string             `bson:"media_type" json:"mediaType" binding:"required"`
	MediaURL    string             `bson:"media_url" json:"mediaUrl" binding:"required,url"`
	ObjectKey   string             `bson:"object_key,omitempty" json:"-"`
	Description string             `bson:"description" json:"description" binding:"max=100"`
	UploadDate  time.Time          `bson:"upload_date" json:"uploadDate"`
}

type PropertyMediaPatch struct {
	MediaType   *string `bson:"media_type,omitempty" json:"mediaType"`
	Description *string `bson:"description,omitempty" json:"description" binding:"omitempty,max=100"`
}

// PropertyFilter narrows the available-properties search.
// Text fields match case-insensitively anywhere in the value; the rest match exactly.
type PropertyFilter struct {
	Address   []string `json:"address"`
	City      []string `json:"city"`
	State     []string `json:"state"`
	Type      []string `json:"type"`
	Tier      []int    `json:"tier"`
	Rooms     []int    `json:"rooms"`
	Bathrooms []int    `json:"bathrooms"`
	Parking   []int    `json:"parking"`
	MinPrice  *float64 `json:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice  *float64 `json:"maxPrice" binding:"omitempty,gte=0"`
}

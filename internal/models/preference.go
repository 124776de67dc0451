package models

// LandlordPreference weights a tenant attribute when ranking candidates.
type LandlordPreference struct {
	Base            `bson:",inline"`
	LandlordAuthID  string `bson:"landlord_auth_id" json:"landlordAuthID" binding:"required"`
	PreferenceType  string `bson:"preference_type" json:"preferenceType" binding:"required"`
	PreferenceValue int    `bson:"preference_value" json:"preferenceValue" binding:"gte=0,lte=10"`
}

// TenantPreference records what a tenant is looking for.
type TenantPreference struct {
	Base            `bson:",inline"`
	TenantAuthID    string `bson:"tenant_auth_id" json:"tenantAuthID" binding:"required"`
	PreferenceType  string `bson:"preference_type" json:"preferenceType" binding:"required"`
	PreferenceValue string `bson:"preference_value" json:"preferenceValue" binding:"required"`
}

type LandlordPreferencePatch struct {
	PreferenceType  *string `bson:"preference_type,omitempty" json:"preferenceType"`
	PreferenceValue *int    `bson:"preference_value,omitempty" json:"preferenceValue" binding:"omitempty,gte=0,lte=10"`
}

type TenantPreferencePatch struct {
	PreferenceType  *string `bson:"preference_type,omitempty" json:"preferenceType"`
	PreferenceValue *string `bson:"preference_value,omitempty" json:"preferenceValue"`
}

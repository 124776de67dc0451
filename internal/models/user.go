package models

// Profile holds the identity fields shared by landlords and tenants.
// AuthID is the identity provider's subject and the join key used by every other collection.
type Profile struct {
	NationalID int64   `bson:"national_id" json:"nationalId" binding:"required,gte=1111111,lte=9999999999"`
	AuthID     string  `bson:"auth_id" json:"authID" binding:"required"`
	FirstName  string  `bson:"first_name" json:"firstName" binding:"required,min=3,max=50"`
	LastName   string  `bson:"last_name" json:"lastName" binding:"required,min=3,max=50"`
	Gender     Gender  `bson:"gender" json:"gender" binding:"required,enum"`
	Phone      string  `bson:"phone" json:"phone" binding:"required,phone"`
	Email      string  `bson:"email" json:"email" binding:"required,email"`
	Avatar     string  `bson:"avatar,omitempty" json:"avatar,omitempty" binding:"omitempty,url"`
	AvgRating  float64 `bson:"avg_rating" json:"avgRating" binding:"gte=0,lte=10"`
}

// Landlord is a property owner's profile.
type Landlord struct {
	Base    `bson:",inline"`
	Profile `bson:",inline"`
}

// Tenant is a renter's profile with the fields landlords score applications on.
type Tenant struct {
	Base                `bson:",inline"`
	Profile             `bson:",inline"`
	IDType              string        `bson:"id_type" json:"idType" binding:"required,min=2,max=4"`
	Age                 int           `bson:"age" json:"age" binding:"required,gte=18"`
	MaritalStatus       MaritalStatus `bson:"marital_status" json:"maritalStatus" binding:"required,enum"`
	Salary              float64       `bson:"salary" json:"salary" binding:"gte=0"`
	ContractType        string        `bson:"contract_type" json:"contractType" binding:"required"`
	Industry            string        `bson:"industry" json:"industry" binding:"required"`
	PreviousContracts   int           `bson:"previous_contracts" json:"previousContracts" binding:"gte=0"`
	AvgContractDuration float64       `bson:"avg_contract_duration" json:"avgContractDuration" binding:"gte=0"`
	Rating              TenantRating  `bson:"rating" json:"rating" binding:"omitempty,enum"`
	IsFamily            bool          `bson:"is_family" json:"isFamily"`
	Tenure              float64       `bson:"tenure" json:"tenure" binding:"gte=0"`
}

// User is a lightweight contact record.
type User struct {
	Base  `bson:",inline"`
	Name  string `bson:"name" json:"name" binding:"required,min=3,max=50"`
	Age   int    `bson:"age" json:"age" binding:"gte=0,lte=130"`
	Phone string `bson:"phone" json:"phone" binding:"required,phone"`
	Email string `bson:"email" json:"email" binding:"omitempty,email"`
}

// ProfilePatch carries the updatable profile fields; nil fields are left unchanged.
type ProfilePatch struct {
	FirstName *string  `bson:"first_name,omitempty" json:"firstName" binding:"omitempty,min=3,max=50"`
	LastName  *string  `bson:"last_name,omitempty" json:"lastName" binding:"omitempty,min=3,max=50"`
	Gender    *Gender  `bson:"gender,omitempty" json:"gender" binding:"omitempty,enum"`
	Phone     *string  `bson:"phone,omitempty" json:"phone" binding:"omitempty,phone"`
	Email     *string  `bson:"email,omitempty" json:"email" binding:"omitempty,email"`
	Avatar    *string  `bson:"avatar,omitempty" json:"avatar" binding:"omitempty,url"`
	AvgRating *float64 `bson:"avg_rating,omitempty" json:"avgRating" binding:"omitempty,gte=0,lte=10"`
}

type LandlordPatch struct {
	ProfilePatch `bson:",inline"`
}

type TenantPatch struct {
	ProfilePatch        `bson:",inline"`
	MaritalStatus       *MaritalStatus `bson:"marital_status,omitempty" json:"maritalStatus" binding:"omitempty,enum"`
	Age                 *int           `bson:"age,omitempty" json:"age" binding:"omitempty,gte=18"`
	Salary              *float64       `bson:"salary,omitempty" json:"salary" binding:"omitempty,gte=0"`
	ContractType        *string        `bson:"contract_type,omitempty" json:"contractType"`
	Industry            *string        `bson:"industry,omitempty" json:"industry"`
	PreviousContracts   *int           `bson:"previous_contracts,omitempty" json:"previousContracts" binding:"omitempty,gte=0"`
	AvgContractDuration *float64       `bson:"avg_contract_duration,omitempty" json:"avgContractDuration" binding:"omitempty,gte=0"`
	Rating              *TenantRating  `bson:"rating,omitempty" json:"rating" binding:"omitempty,enum"`
	IsFamily            *bool          `bson:"is_family,omitempty" json:"isFamily"`
	Tenure              *float64       `bson:"tenure,omitempty" json:"tenure" binding:"omitempty,gte=0"`
}

type UserPatch struct {
	Name  *string `bson:"name,omitempty" json:"name" binding:"omitempty,min=3,max=50"`
	Age   *int    `bson:"age,omitempty" json:"age" binding:"omitempty,gte=0,lte=130"`
	Phone *string `bson:"phone,omitempty" json:"phone" binding:"omitempty,phone"`
	Email *string `bson:"email,omitempty" json:"email" binding:"omitempty,email"`
}

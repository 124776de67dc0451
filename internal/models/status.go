package models

// Enum is implemented by every closed enumeration so request validation can reject unknown values.
type Enum interface {
	Valid() bool
}

type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "submitted"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationApproved    ApplicationStatus = "approved"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationSubmitted:   {ApplicationUnderReview, ApplicationWithdrawn},
	ApplicationUnderReview: {ApplicationApproved, ApplicationRejected, ApplicationWithdrawn},
	ApplicationApproved:    nil,
	ApplicationRejected:    nil,
	ApplicationWithdrawn:   nil,
}

func (s ApplicationStatus) Valid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

// CanTransitionTo reports whether the application lifecycle allows moving from s to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return contains(applicationTransitions[s], next)
}

type RepairStatus string

const (
	RepairReported   RepairStatus = "reported"
	RepairInProgress RepairStatus = "in_progress"
	RepairResolved   RepairStatus = "resolved"
	RepairCancelled  RepairStatus = "cancelled"
)

var repairTransitions = map[RepairStatus][]RepairStatus{
	RepairReported:   {RepairInProgress, RepairCancelled},
	RepairInProgress: {RepairResolved, RepairCancelled},
	RepairResolved:   nil,
	RepairCancelled:  nil,
}

func (s RepairStatus) Valid() bool {
	_, ok := repairTransitions[s]
	return ok
}

func (s RepairStatus) CanTransitionTo(next RepairStatus) bool {
	return contains(repairTransitions[s], next)
}

// ContractStatus is a stored override on top of the date-derived state.
// The empty value means "derive from startDate/endDate".
type ContractStatus string

const (
	ContractDerived    ContractStatus = ""
	ContractActive     ContractStatus = "active"
	ContractExpired    ContractStatus = "expired"
	ContractTerminated ContractStatus = "terminated"
)

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractDerived:    {ContractActive, ContractExpired, ContractTerminated},
	ContractActive:     {ContractExpired, ContractTerminated},
	ContractExpired:    nil,
	ContractTerminated: nil,
}

func (s ContractStatus) Valid() bool {
	_, ok := contractTransitions[s]
	return ok
}

func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	return contains(contractTransitions[s], next)
}

type RepairPriority string

const (
	PriorityLow    RepairPriority = "low"
	PriorityMedium RepairPriority = "medium"
	PriorityHigh   RepairPriority = "high"
)

func (p RepairPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentFailed
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentTransfer || m == PaymentCard
}

type Gender string

const (
	GenderMale   Gender = "Masculino"
	GenderFemale Gender = "Femenino"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type MaritalStatus string

const (
	MaritalSingle     MaritalStatus = "Soltero"
	MaritalMarried    MaritalStatus = "Casado"
	MaritalWidowed    MaritalStatus = "Viudo"
	MaritalDivorced   MaritalStatus = "Divorciado"
	MaritalCivilUnion MaritalStatus = "Unión Libre"
)

func (m MaritalStatus) Valid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalWidowed, MaritalDivorced, MaritalCivilUnion:
		return true
	}
	return false
}

type TenantRating string

const (
	RatingAPlus TenantRating = "A+"
	RatingA     TenantRating = "A"
	RatingB     TenantRating = "B"
	RatingC     TenantRating = "C"
	RatingD     TenantRating = "D"
	RatingE     TenantRating = "E"
	RatingF     TenantRating = "F"
	RatingNone  TenantRating = "N/A"
)

func (r TenantRating) Valid() bool {
	switch r {
	case RatingAPlus, RatingA, RatingB, RatingC, RatingD, RatingE, RatingF, RatingNone:
		return true
	}
	return false
}

// ApplicationMediaType lists the supporting documents an application may carry.
type ApplicationMediaType string

const (
	MediaIdentityDocument      ApplicationMediaType = "Documento de identidad"
	MediaEmploymentCertificate ApplicationMediaType = "Certificado laboral"
	MediaPayrollSupport        ApplicationMediaType = "Soporte pago nómina"
	MediaBankStatements        ApplicationMediaType = "Extractos bancarios"
)

func (t ApplicationMediaType) Valid() bool {
	switch t {
	case MediaIdentityDocument, MediaEmploymentCertificate, MediaPayrollSupport, MediaBankStatements:
		return true
	}
	return false
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/models"
)

// AppointmentDetails is an appointment with the parties and property it refers to.
// References that no longer resolve are left nil.
type AppointmentDetails struct {
	Appointment *models.Appointment `json:"appointment"`
	Landlord    *models.Landlord    `json:"landlord"`
	Tenant      *models.Tenant      `json:"tenant"`
	Property    *models.Property    `json:"property"`
}

// IAppointmentService schedules property visits.
type IAppointmentService interface {
	Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*AppointmentDetails, error)
	List(ctx context.Context) ([]models.Appointment, error)
	ListThisYearByLandlord(ctx context.Context, landlordAuthID string) ([]models.Appointment, error)
	ListThisYearByTenant(ctx context.Context, tenantAuthID string) ([]models.Appointment, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.AppointmentPatch) (*models.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const appointmentsCollection = "appointments"

type appointmentService struct {
	store      *store[models.Appointment, *models.Appointment]
	landlords  *store[models.Landlord, *models.Landlord]
	tenants    *store[models.Tenant, *models.Tenant]
	properties *store[models.Property, *models.Property]
	now        func() time.Time
}

func NewAppointmentService(db *mongo.Database) IAppointmentService {
	return &appointmentService{
		store:      newStore[models.Appointment](db, appointmentsCollection, "Appointment"),
		landlords:  newStore[models.Landlord](db, landlordsCollection, "Landlord"),
		tenants:    newStore[models.Tenant](db, tenantsCollection, "Tenant"),
		properties: newStore[models.Property](db, propertiesCollection, "Property"),
		now:        time.Now,
	}
}

func (s *appointmentService) Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	if _, err := s.landlords.findOne(ctx, bson.M{"auth_id": appointment.LandlordAuthID}); err != nil {
		return nil, err
	}
	if _, err := s.properties.findByID(ctx, appointment.PropertyID); err != nil {
		return nil, err
	}
	if err := s.store.insert(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *appointmentService) FindByID(ctx context.Context, id primitive.ObjectID) (*AppointmentDetails, error) {
	appointment, err := s.store.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &AppointmentDetails{Appointment: appointment}

	if details.Landlord, err = optional(s.landlords.findOne(ctx, bson.M{"auth_id": appointment.LandlordAuthID})); err != nil {
		return nil, err
	}
	if details.Tenant, err = optional(s.tenants.findOne(ctx, bson.M{"auth_id": appointment.TenantAuthID})); err != nil {
		return nil, err
	}
	if details.Property, err = optional(s.properties.findByID(ctx, appointment.PropertyID)); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *appointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	return s.store.find(ctx, nil)
}

func (s *appointmentService) ListThisYearByLandlord(ctx context.Context, landlordAuthID string) ([]models.Appointment, error) {
	return s.store.find(ctx, s.thisYear(bson.M{"landlord_auth_id": landlordAuthID}))
}

func (s *appointmentService) ListThisYearByTenant(ctx context.Context, tenantAuthID string) ([]models.Appointment, error) {
	return s.store.find(ctx, s.thisYear(bson.M{"tenant_auth_id": tenantAuthID}))
}

// thisYear restricts filter to appointments dated in the current calendar year (UTC).
func (s *appointmentService) thisYear(filter bson.M) bson.M {
	start, end := yearBounds(s.now())
	filter["date"] = bson.M{"$gte": start, "$lt": end}
	return filter
}

// yearBounds returns [Jan 1 of t's year, Jan 1 of the next year) in UTC.
func yearBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func (s *appointmentService) Update(ctx context.Context, id primitive.ObjectID, patch *models.AppointmentPatch) (*models.Appointment, error) {
	return s.store.patch(ctx, bson.M{"_id": id}, patch)
}

func (s *appointmentService) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.store.delete(ctx, bson.M{"_id": id})
	return err
}

// optional turns a NotFound lookup into a nil result.
func optional[T any](doc *T, err error) (*T, error) {
	if IsNotFound(err) {
		return nil, nil
	}
	return doc, err
}

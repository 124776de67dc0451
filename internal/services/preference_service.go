package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/models"
)

// IPreferenceService stores landlord and tenant matching preferences.
type IPreferenceService interface {
	CreateLandlordPreference(ctx context.Context, pref *models.LandlordPreference) (*models.LandlordPreference, error)
	FindLandlordPreference(ctx context.Context, id primitive.ObjectID) (*models.LandlordPreference, error)
	ListLandlordPreferences(ctx context.Context, landlordAuthID string) ([]models.LandlordPreference, error)
	UpdateLandlordPreference(ctx context.Context, id primitive.ObjectID, patch *models.LandlordPreferencePatch) (*models.LandlordPreference, error)
	DeleteLandlordPreference(ctx context.Context, id primitive.ObjectID) error

	CreateTenantPreference(ctx context.Context, pref *models.TenantPreference) (*models.TenantPreference, error)
	FindTenantPreference(ctx context.Context, id primitive.ObjectID) (*models.TenantPreference, error)
	ListTenantPreferences(ctx context.Context, tenantAuthID string) ([]models.TenantPreference, error)
	UpdateTenantPreference(ctx context.Context, id primitive.ObjectID, patch *models.TenantPreferencePatch) (*models.TenantPreference, error)
	DeleteTenantPreference(ctx context.Context, id primitive.ObjectID) error
}

const (
	landlordPreferencesCollection = "landlord_preferences"
	tenantPreferencesCollection   = "tenant_preferences"
)

type preferenceService struct {
	landlordPrefs *store[models.LandlordPreference, *models.LandlordPreference]
	tenantPrefs   *store[models.TenantPreference, *models.TenantPreference]
}

func NewPreferenceService(db *mongo.Database) IPreferenceService {
	return &preferenceService{
		landlordPrefs: newStore[models.LandlordPreference](db, landlordPreferencesCollection, "Landlord preference"),
		tenantPrefs:   newStore[models.TenantPreference](db, tenantPreferencesCollection, "Tenant preference"),
	}
}

func (s *preferenceService) CreateLandlordPreference(ctx context.Context, pref *models.LandlordPreference) (*models.LandlordPreference, error) {
	if err := s.landlordPrefs.insert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *preferenceService) FindLandlordPreference(ctx context.Context, id primitive.ObjectID) (*models.LandlordPreference, error) {
	return s.landlordPrefs.findByID(ctx, id)
}

// ListLandlordPreferences returns every landlord preference when landlordAuthID is empty.
func (s *preferenceService) ListLandlordPreferences(ctx context.Context, landlordAuthID string) ([]models.LandlordPreference, error) {
	if landlordAuthID == "" {
		return s.landlordPrefs.find(ctx, nil)
	}
	return s.landlordPrefs.find(ctx, bson.M{"landlord_auth_id": landlordAuthID})
}

func (s *preferenceService) UpdateLandlordPreference(ctx context.Context, id primitive.ObjectID, patch *models.LandlordPreferencePatch) (*models.LandlordPreference, error) {
	return s.landlordPrefs.patch(ctx, bson.M{"_id": id}, patch)
}

func (s *preferenceService) DeleteLandlordPreference(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.landlordPrefs.delete(ctx, bson.M{"_id": id})
	return err
}

func (s *preferenceService) CreateTenantPreference(ctx context.Context, pref *models.TenantPreference) (*models.TenantPreference, error) {
	if err := s.tenantPrefs.insert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *preferenceService) FindTenantPreference(ctx context.Context, id primitive.ObjectID) (*models.TenantPreference, error) {
	return s.tenantPrefs.findByID(ctx, id)
}

func (s *preferenceService) ListTenantPreferences(ctx context.Context, tenantAuthID string) ([]models.TenantPreference, error) {
	if tenantAuthID == "" {
		return s.tenantPrefs.find(ctx, nil)
	}
	return s.tenantPrefs.find(ctx, bson.M{"tenant_auth_id": tenantAuthID})
}

func (s *preferenceService) UpdateTenantPreference(ctx context.Context, id primitive.ObjectID, patch *models.TenantPreferencePatch) (*models.TenantPreference, error) {
	return s.tenantPrefs.patch(ctx, bson.M{"_id": id}, patch)
}

func (s *preferenceService) DeleteTenantPreference(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.tenantPrefs.delete(ctx, bson.M{"_id": id})
	return err
}

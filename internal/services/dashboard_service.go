package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/readmodel"
)

// IDashboardService serves the aggregated views. Each call loads the documents it needs with
// $in lookups and hands them to readmodel for joining and ordering.
type IDashboardService interface {
	ActiveTenantsByLandlord(ctx context.Context, landlordAuthID string) (*readmodel.LandlordTenants, error)
	AvailableProperties(ctx context.Context, filter *models.PropertyFilter) ([]readmodel.PropertyWithMedia, error)
	PropertyDetail(ctx context.Context, propertyID primitive.ObjectID) (*readmodel.PropertyView, error)
	LandlordProperties(ctx context.Context, landlordAuthID string) ([]readmodel.PropertyView, error)
	Candidates(ctx context.Context, landlordAuthID string) ([]readmodel.PropertyCandidates, error)
}

type dashboardService struct {
	landlords    *store[models.Landlord, *models.Landlord]
	tenants      *store[models.Tenant, *models.Tenant]
	properties   *store[models.Property, *models.Property]
	media        *store[models.PropertyMedia, *models.PropertyMedia]
	contracts    *store[models.Contract, *models.Contract]
	applications *store[models.Application, *models.Application]
	now          func() time.Time
}

func NewDashboardService(db *mongo.Database) IDashboardService {
	return &dashboardService{
		landlords:    newStore[models.Landlord](db, landlordsCollection, "Landlord"),
		tenants:      newStore[models.Tenant](db, tenantsCollection, "Tenant"),
		properties:   newStore[models.Property](db, propertiesCollection, "Property"),
		media:        newStore[models.PropertyMedia](db, propertyMediaCollection, "Property media"),
		contracts:    newStore[models.Contract](db, contractsCollection, "Contract"),
		applications: newStore[models.Application](db, applicationsCollection, "Application"),
		now:          time.Now,
	}
}

// ActiveTenantsByLandlord returns the tenants holding an active contract on one of the
// landlord's properties. An unknown landlord is NotFound; no tenants is an empty list.
func (s *dashboardService) ActiveTenantsByLandlord(ctx context.Context, landlordAuthID string) (*readmodel.LandlordTenants, error) {
	landlord, err := s.landlords.findOne(ctx, bson.M{"auth_id": landlordAuthID})
	if err != nil {
		return nil, err
	}
	properties, err := s.properties.find(ctx, bson.M{"landlord_auth_id": landlordAuthID})
	if err != nil {
		return nil, err
	}
	contracts, err := s.contracts.find(ctx, bson.M{
		"property_id": bson.M{"$in": propertyIDs(properties)},
		"status":      bson.M{"$nin": bson.A{models.ContractTerminated, models.ContractExpired}},
	})
	if err != nil {
		return nil, err
	}
	tenants, err := s.tenantsFor(ctx, contractTenants(contracts))
	if err != nil {
		return nil, err
	}

	view := readmodel.ActiveTenantsByLandlord(*landlord, properties, contracts, tenants, s.now())
	return &view, nil
}

// AvailableProperties returns available properties with their media. A nil filter lists all of them.
func (s *dashboardService) AvailableProperties(ctx context.Context, filter *models.PropertyFilter) ([]readmodel.PropertyWithMedia, error) {
	query, err := availableQuery(filter)
	if err != nil {
		return nil, err
	}
	properties, err := s.properties.find(ctx, query)
	if err != nil {
		return nil, err
	}
	media, err := s.media.find(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs(properties)}})
	if err != nil {
		return nil, err
	}
	return readmodel.AvailablePropertiesWithMedia(properties, media), nil
}

func (s *dashboardService) PropertyDetail(ctx context.Context, propertyID primitive.ObjectID) (*readmodel.PropertyView, error) {
	property, err := s.properties.findByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	media, err := s.media.find(ctx, bson.M{"property_id": propertyID})
	if err != nil {
		return nil, err
	}
	contracts, err := s.contracts.find(ctx, bson.M{"property_id": propertyID})
	if err != nil {
		return nil, err
	}
	tenants, err := s.tenantsFor(ctx, contractTenants(contracts))
	if err != nil {
		return nil, err
	}

	view := readmodel.PropertyDetail(*property, media, contracts, tenants, s.now())
	return &view, nil
}

// LandlordProperties lists the landlord's own properties with media and active contract.
func (s *dashboardService) LandlordProperties(ctx context.Context, landlordAuthID string) ([]readmodel.PropertyView, error) {
	properties, err := s.properties.find(ctx, bson.M{"landlord_auth_id": landlordAuthID})
	if err != nil {
		return nil, err
	}
	ids := propertyIDs(properties)
	media, err := s.media.find(ctx, bson.M{"property_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	contracts, err := s.contracts.find(ctx, bson.M{"property_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	tenants, err := s.tenantsFor(ctx, contractTenants(contracts))
	if err != nil {
		return nil, err
	}
	return readmodel.PropertiesWithMediaAndContract(properties, media, contracts, tenants, s.now()), nil
}

func (s *dashboardService) Candidates(ctx context.Context, landlordAuthID string) ([]readmodel.PropertyCandidates, error) {
	if _, err := s.landlords.findOne(ctx, bson.M{"auth_id": landlordAuthID}); err != nil {
		return nil, err
	}
	properties, err := s.properties.find(ctx, bson.M{"landlord_auth_id": landlordAuthID})
	if err != nil {
		return nil, err
	}
	applications, err := s.applications.find(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs(properties)}})
	if err != nil {
		return nil, err
	}
	authIDs := make([]string, 0, len(applications))
	for _, a := range applications {
		authIDs = append(authIDs, a.TenantAuthID)
	}
	tenants, err := s.tenantsFor(ctx, authIDs)
	if err != nil {
		return nil, err
	}
	return readmodel.PropertiesWithCandidates(properties, applications, tenants), nil
}

func (s *dashboardService) tenantsFor(ctx context.Context, authIDs []string) ([]models.Tenant, error) {
	if len(authIDs) == 0 {
		return []models.Tenant{}, nil
	}
	return s.tenants.find(ctx, bson.M{"auth_id": bson.M{"$in": authIDs}})
}

func contractTenants(contracts []models.Contract) []string {
	seen := make(map[string]bool, len(contracts))
	authIDs := make([]string, 0, len(contracts))
	for _, c := range contracts {
		if !seen[c.TenantAuthID] {
			seen[c.TenantAuthID] = true
			authIDs = append(authIDs, c.TenantAuthID)
		}
	}
	return authIDs
}

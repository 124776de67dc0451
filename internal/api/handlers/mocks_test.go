package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhunter5/Backend/internal/identity"
	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/readmodel"
	"github.com/jhunter5/Backend/internal/services"
)

// returnOrNil unpacks a typed pointer or slice result that may have been configured as nil.
func returnOrNil[T any](args mock.Arguments) (T, error) {
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return returnOrNil[*models.User](m.Called(ctx, user))
}
func (m *MockUserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return returnOrNil[*models.User](m.Called(ctx, id))
}
func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	return returnOrNil[[]models.User](m.Called(ctx))
}
func (m *MockUserService) Update(ctx context.Context, id primitive.ObjectID, patch *models.UserPatch) (*models.User, error) {
	return returnOrNil[*models.User](m.Called(ctx, id, patch))
}
func (m *MockUserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, property *models.Property, media []services.AttachmentInput) (*services.PropertyCreated, error) {
	return returnOrNil[*services.PropertyCreated](m.Called(ctx, property, media))
}
func (m *MockPropertyService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return returnOrNil[*models.Property](m.Called(ctx, id))
}
func (m *MockPropertyService) List(ctx context.Context) ([]models.Property, error) {
	return returnOrNil[[]models.Property](m.Called(ctx))
}
func (m *MockPropertyService) ListByLandlord(ctx context.Context, landlordAuthID string) ([]models.Property, error) {
	return returnOrNil[[]models.Property](m.Called(ctx, landlordAuthID))
}
func (m *MockPropertyService) SearchAvailable(ctx context.Context, filter *models.PropertyFilter) ([]models.Property, error) {
	return returnOrNil[[]models.Property](m.Called(ctx, filter))
}
func (m *MockPropertyService) Update(ctx context.Context, id primitive.ObjectID, patch *models.PropertyPatch) (*models.Property, error) {
	return returnOrNil[*models.Property](m.Called(ctx, id, patch))
}
func (m *MockPropertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

// MockDashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) ActiveTenantsByLandlord(ctx context.Context, landlordAuthID string) (*readmodel.LandlordTenants, error) {
	return returnOrNil[*readmodel.LandlordTenants](m.Called(ctx, landlordAuthID))
}
func (m *MockDashboardService) AvailableProperties(ctx context.Context, filter *models.PropertyFilter) ([]readmodel.PropertyWithMedia, error) {
	return returnOrNil[[]readmodel.PropertyWithMedia](m.Called(ctx, filter))
}
func (m *MockDashboardService) PropertyDetail(ctx context.Context, propertyID primitive.ObjectID) (*readmodel.PropertyView, error) {
	return returnOrNil[*readmodel.PropertyView](m.Called(ctx, propertyID))
}
func (m *MockDashboardService) LandlordProperties(ctx context.Context, landlordAuthID string) ([]readmodel.PropertyView, error) {
	return returnOrNil[[]readmodel.PropertyView](m.Called(ctx, landlordAuthID))
}
func (m *MockDashboardService) Candidates(ctx context.Context, landlordAuthID string) ([]readmodel.PropertyCandidates, error) {
	return returnOrNil[[]readmodel.PropertyCandidates](m.Called(ctx, landlordAuthID))
}

// MockContractService
type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) Create(ctx context.Context, contract *models.Contract, documents []services.AttachmentInput) (*services.ContractDetails, error) {
	return returnOrNil[*services.ContractDetails](m.Called(ctx, contract, documents))
}
func (m *MockContractService) FindByID(ctx context.Context, id primitive.ObjectID) (*services.ContractDetails, error) {
	return returnOrNil[*services.ContractDetails](m.Called(ctx, id))
}
func (m *MockContractService) ListByTenant(ctx context.Context, tenantAuthID string) ([]models.Contract, error) {
	return returnOrNil[[]models.Contract](m.Called(ctx, tenantAuthID))
}
func (m *MockContractService) ListActiveByTenant(ctx context.Context, tenantAuthID string) ([]models.Contract, error) {
	return returnOrNil[[]models.Contract](m.Called(ctx, tenantAuthID))
}
func (m *MockContractService) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Contract, error) {
	return returnOrNil[[]models.Contract](m.Called(ctx, propertyID))
}
func (m *MockContractService) ListByPropertyAndTenant(ctx context.Context, propertyID primitive.ObjectID, tenantAuthID string) ([]models.Contract, error) {
	return returnOrNil[[]models.Contract](m.Called(ctx, propertyID, tenantAuthID))
}
func (m *MockContractService) ListByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.Contract, error) {
	return returnOrNil[[]models.Contract](m.Called(ctx, propertyIDs))
}
func (m *MockContractService) Update(ctx context.Context, id primitive.ObjectID, patch *models.ContractPatch) (*models.Contract, error) {
	return returnOrNil[*models.Contract](m.Called(ctx, id, patch))
}
func (m *MockContractService) Terminate(ctx context.Context, id primitive.ObjectID) (*models.Contract, error) {
	return returnOrNil[*models.Contract](m.Called(ctx, id))
}
func (m *MockContractService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockContractService) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Create(ctx context.Context, application *models.Application, media []services.AttachmentInput, references []models.ApplicationReference) (*services.ApplicationDetails, error) {
	return returnOrNil[*services.ApplicationDetails](m.Called(ctx, application, media, references))
}
func (m *MockApplicationService) FindByID(ctx context.Context, id primitive.ObjectID) (*services.ApplicationDetails, error) {
	return returnOrNil[*services.ApplicationDetails](m.Called(ctx, id))
}
func (m *MockApplicationService) List(ctx context.Context) ([]models.Application, error) {
	return returnOrNil[[]models.Application](m.Called(ctx))
}
func (m *MockApplicationService) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Application, error) {
	return returnOrNil[[]models.Application](m.Called(ctx, propertyID))
}
func (m *MockApplicationService) ListByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.Application, error) {
	return returnOrNil[[]models.Application](m.Called(ctx, propertyIDs))
}
func (m *MockApplicationService) ListByTenant(ctx context.Context, tenantAuthID string) ([]models.Application, error) {
	return returnOrNil[[]models.Application](m.Called(ctx, tenantAuthID))
}
func (m *MockApplicationService) Update(ctx context.Context, id primitive.ObjectID, patch *models.ApplicationPatch) (*models.Application, error) {
	return returnOrNil[*models.Application](m.Called(ctx, id, patch))
}
func (m *MockApplicationService) Transition(ctx context.Context, id primitive.ObjectID, next models.ApplicationStatus) (*models.Application, error) {
	return returnOrNil[*models.Application](m.Called(ctx, id, next))
}
func (m *MockApplicationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

// MockProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) VerifyProfile(ctx context.Context, authID string) (*services.ProfileStatus, error) {
	return returnOrNil[*services.ProfileStatus](m.Called(ctx, authID))
}

// MockIdentityClient
type MockIdentityClient struct {
	mock.Mock
}

func (m *MockIdentityClient) ListRoles(ctx context.Context) ([]identity.Role, error) {
	return returnOrNil[[]identity.Role](m.Called(ctx))
}
func (m *MockIdentityClient) AssignRole(ctx context.Context, userID, roleName string) error {
	return m.Called(ctx, userID, roleName).Error(0)
}

package services

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/identity"
	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/saga"
	"github.com/jhunter5/Backend/internal/storage"
)

// MinTenantAge is the youngest age accepted on a tenant profile.
const MinTenantAge = 18

// ITenantService manages tenant profiles, addressed by their authID.
type ITenantService interface {
	Create(ctx context.Context, tenant *models.Tenant, avatar *AttachmentInput) (*models.Tenant, error)
	FindByAuthID(ctx context.Context, authID string) (*models.Tenant, error)
	List(ctx context.Context) ([]models.Tenant, error)
	Update(ctx context.Context, authID string, patch *models.TenantPatch) (*models.Tenant, error)
	Delete(ctx context.Context, authID string) error
}

const tenantsCollection = "tenants"

type tenantService struct {
	cfg     *config.Config
	store   *store[models.Tenant, *models.Tenant]
	storage storage.IS3Storage
	queue   IJobQueue
}

func NewTenantService(db *mongo.Database, cfg *config.Config, storage storage.IS3Storage, queue IJobQueue) ITenantService {
	st := newStore[models.Tenant](db, tenantsCollection, "Tenant")
	st.conflict = profileConflict("tenant")
	return &tenantService{cfg: cfg, store: st, storage: storage, queue: queue}
}

func (s *tenantService) Create(ctx context.Context, tenant *models.Tenant, avatar *AttachmentInput) (*models.Tenant, error) {
	if tenant.Age < MinTenantAge {
		return nil, fieldError("age", "must be at least %d", MinTenantAge)
	}
	if tenant.Rating == "" {
		tenant.Rating = models.RatingNone
	}
	if err := checkProfileUnique(ctx, s.store.coll, "tenant", tenant.Profile); err != nil {
		return nil, err
	}

	sg := saga.New("create tenant")
	if err := uploadAvatar(ctx, s.cfg, s.storage, sg, "avatars/tenants", avatar, &tenant.Profile); err != nil {
		return nil, err
	}
	if err := sg.Run(ctx, saga.Step{
		Name:   "insert tenant",
		Action: func(ctx context.Context) error { return s.store.insert(ctx, tenant) },
	}); err != nil {
		return nil, err
	}

	if err := s.queue.EnqueueRoleAssignment(ctx, tenant.AuthID, identity.RoleTenant); err != nil {
		log.Printf("Failed to enqueue tenant role assignment for %s: %v", tenant.AuthID, err)
	}
	return tenant, nil
}

func (s *tenantService) FindByAuthID(ctx context.Context, authID string) (*models.Tenant, error) {
	return s.store.findOne(ctx, bson.M{"auth_id": authID})
}

func (s *tenantService) List(ctx context.Context) ([]models.Tenant, error) {
	return s.store.find(ctx, nil)
}

func (s *tenantService) Update(ctx context.Context, authID string, patch *models.TenantPatch) (*models.Tenant, error) {
	if patch.Age != nil && *patch.Age < MinTenantAge {
		return nil, fieldError("age", "must be at least %d", MinTenantAge)
	}
	return s.store.patch(ctx, bson.M{"auth_id": authID}, patch)
}

func (s *tenantService) Delete(ctx context.Context, authID string) error {
	_, err := s.store.delete(ctx, bson.M{"auth_id": authID})
	return err
}

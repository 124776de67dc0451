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

// ILandlordService manages landlord profiles, addressed by their authID.
type ILandlordService interface {
	Create(ctx context.Context, landlord *models.Landlord, avatar *AttachmentInput) (*models.Landlord, error)
	FindByAuthID(ctx context.Context, authID string) (*models.Landlord, error)
	List(ctx context.Context) ([]models.Landlord, error)
	Update(ctx context.Context, authID string, patch *models.LandlordPatch) (*models.Landlord, error)
	Delete(ctx context.Context, authID string) error
}

const landlordsCollection = "landlords"

type landlordService struct {
	cfg     *config.Config
	store   *store[models.Landlord, *models.Landlord]
	storage storage.IS3Storage
	queue   IJobQueue
}

func NewLandlordService(db *mongo.Database, cfg *config.Config, storage storage.IS3Storage, queue IJobQueue) ILandlordService {
	st := newStore[models.Landlord](db, landlordsCollection, "Landlord")
	st.conflict = profileConflict("landlord")
	return &landlordService{cfg: cfg, store: st, storage: storage, queue: queue}
}

// Create stores a landlord profile, uploading the avatar first when one is given.
// The avatar is removed again if the profile cannot be stored.
func (s *landlordService) Create(ctx context.Context, landlord *models.Landlord, avatar *AttachmentInput) (*models.Landlord, error) {
	if err := checkProfileUnique(ctx, s.store.coll, "landlord", landlord.Profile); err != nil {
		return nil, err
	}

	sg := saga.New("create landlord")
	if err := uploadAvatar(ctx, s.cfg, s.storage, sg, "avatars/landlords", avatar, &landlord.Profile); err != nil {
		return nil, err
	}
	if err := sg.Run(ctx, saga.Step{
		Name:   "insert landlord",
		Action: func(ctx context.Context) error { return s.store.insert(ctx, landlord) },
	}); err != nil {
		return nil, err
	}

	if err := s.queue.EnqueueRoleAssignment(ctx, landlord.AuthID, identity.RoleLandlord); err != nil {
		log.Printf("Failed to enqueue landlord role assignment for %s: %v", landlord.AuthID, err)
	}
	return landlord, nil
}

func (s *landlordService) FindByAuthID(ctx context.Context, authID string) (*models.Landlord, error) {
	return s.store.findOne(ctx, bson.M{"auth_id": authID})
}

func (s *landlordService) List(ctx context.Context) ([]models.Landlord, error) {
	return s.store.find(ctx, nil)
}

func (s *landlordService) Update(ctx context.Context, authID string, patch *models.LandlordPatch) (*models.Landlord, error) {
	return s.store.patch(ctx, bson.M{"auth_id": authID}, patch)
}

// Delete removes the profile. Properties keep their landlordAuthID reference.
func (s *landlordService) Delete(ctx context.Context, authID string) error {
	_, err := s.store.delete(ctx, bson.M{"auth_id": authID})
	return err
}

// uploadAvatar stores the avatar, sets profile.Avatar and registers its deletion with sg.
func uploadAvatar(ctx context.Context, cfg *config.Config, store storage.IS3Storage, sg *saga.Saga, prefix string, avatar *AttachmentInput, profile *models.Profile) error {
	if avatar == nil || avatar.Content == "" {
		return nil
	}
	decoded, err := decodeAttachments("avatar", []AttachmentInput{*avatar}, cfg.ImageMaxSizeMB<<20)
	if err != nil {
		return err
	}
	if !decoded[0].file.IsImage() {
		return fieldError("avatar", "must be an image")
	}
	uploads, err := uploadAll(ctx, store, sg, prefix, decoded, 1)
	if err != nil {
		return err
	}
	profile.Avatar = uploads[0].object.URL
	return nil
}

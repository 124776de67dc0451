package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/saga"
	"github.com/jhunter5/Backend/internal/storage"
)

// IPropertyMediaService manages media attached to an existing property.
type IPropertyMediaService interface {
	Create(ctx context.Context, propertyID primitive.ObjectID, file AttachmentInput) (*models.PropertyMedia, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PropertyMedia, error)
	List(ctx context.Context) ([]models.PropertyMedia, error)
	ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.PropertyMedia, error)
	ListByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.PropertyMedia, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.PropertyMediaPatch) (*models.PropertyMedia, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const propertyMediaCollection = "property_media"

type propertyMediaService struct {
	cfg        *config.Config
	store      *store[models.PropertyMedia, *models.PropertyMedia]
	properties *store[models.Property, *models.Property]
	storage    storage.IS3Storage
	queue      IJobQueue
}

func NewPropertyMediaService(db *mongo.Database, cfg *config.Config, storage storage.IS3Storage, queue IJobQueue) IPropertyMediaService {
	return &propertyMediaService{
		cfg:        cfg,
		store:      newStore[models.PropertyMedia](db, propertyMediaCollection, "Property media"),
		properties: newStore[models.Property](db, propertiesCollection, "Property"),
		storage:    storage,
		queue:      queue,
	}
}

// Create uploads file and records it against the property. The object is deleted if the record cannot be stored.
func (s *propertyMediaService) Create(ctx context.Context, propertyID primitive.ObjectID, file AttachmentInput) (*models.PropertyMedia, error) {
	decoded, err := decodeAttachments("file", []AttachmentInput{file}, s.cfg.ImageMaxSizeMB<<20)
	if err != nil {
		return nil, err
	}
	if _, err := s.properties.findByID(ctx, propertyID); err != nil {
		return nil, err
	}

	sg := saga.New("create property media")
	uploads, err := uploadAll(ctx, s.storage, sg, "properties/"+propertyID.Hex(), decoded, 1)
	if err != nil {
		return nil, err
	}

	doc := &models.PropertyMedia{
		PropertyID:  propertyID,
		MediaType:   uploads[0].object.ContentType,
		MediaURL:    uploads[0].object.URL,
		ObjectKey:   uploads[0].object.Key,
		Description: file.Description,
		UploadDate:  time.Now().UTC(),
	}
	if err := sg.Run(ctx, saga.Step{
		Name:   "insert property media",
		Action: func(ctx context.Context) error { return s.store.insert(ctx, doc) },
	}); err != nil {
		return nil, err
	}

	enqueueImages(ctx, s.queue, uploads)
	return doc, nil
}

func (s *propertyMediaService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PropertyMedia, error) {
	return s.store.findByID(ctx, id)
}

func (s *propertyMediaService) List(ctx context.Context) ([]models.PropertyMedia, error) {
	return s.store.find(ctx, nil)
}

func (s *propertyMediaService) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.PropertyMedia, error) {
	return s.store.find(ctx, bson.M{"property_id": propertyID})
}

func (s *propertyMediaService) ListByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.PropertyMedia, error) {
	return s.store.find(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs}})
}

func (s *propertyMediaService) Update(ctx context.Context, id primitive.ObjectID, patch *models.PropertyMediaPatch) (*models.PropertyMedia, error) {
	return s.store.patch(ctx, bson.M{"_id": id}, patch)
}

// Delete removes the record, then its object. A failed object delete is logged and left behind.
func (s *propertyMediaService) Delete(ctx context.Context, id primitive.ObjectID) error {
	doc, err := s.store.delete(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	removeObject(ctx, s.storage, doc.ObjectKey, doc.MediaURL)
	return nil
}

// removeObject deletes a stored object by key, falling back to the key encoded in url.
func removeObject(ctx context.Context, store storage.IS3Storage, key, url string) {
	if key == "" {
		var ok bool
		if key, ok = store.KeyFromURL(url); !ok {
			return
		}
	}
	if err := store.Delete(ctx, key); err != nil {
		log.Printf("Failed to delete stored object %s: %v", key, err)
	}
}

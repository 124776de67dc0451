package services

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/saga"
	"github.com/jhunter5/Backend/internal/storage"
)

// PropertyCreated is a property together with the media stored with it.
type PropertyCreated struct {
	Property *models.Property       `json:"property"`
	Media    []models.PropertyMedia `json:"media"`
}

// IPropertyService defines property storage operations.
type IPropertyService interface {
	Create(ctx context.Context, property *models.Property, media []AttachmentInput) (*PropertyCreated, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	List(ctx context.Context) ([]models.Property, error)
	ListByLandlord(ctx context.Context, landlordAuthID string) ([]models.Property, error)
	SearchAvailable(ctx context.Context, filter *models.PropertyFilter) ([]models.Property, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.PropertyPatch) (*models.Property, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const propertiesCollection = "properties"

type propertyService struct {
	cfg       *config.Config
	store     *store[models.Property, *models.Property]
	media     *store[models.PropertyMedia, *models.PropertyMedia]
	landlords *store[models.Landlord, *models.Landlord]
	storage   storage.IS3Storage
	queue     IJobQueue
}

func NewPropertyService(db *mongo.Database, cfg *config.Config, storage storage.IS3Storage, queue IJobQueue) IPropertyService {
	return &propertyService{
		cfg:       cfg,
		store:     newStore[models.Property](db, propertiesCollection, "Property"),
		media:     newStore[models.PropertyMedia](db, propertyMediaCollection, "Property media"),
		landlords: newStore[models.Landlord](db, landlordsCollection, "Landlord"),
		storage:   storage,
		queue:     queue,
	}
}

// Create stores the property and its media as one unit.
// Media files are uploaded concurrently after the property is inserted. If any upload or
// the media insert fails, uploaded objects and the property are removed again.
func (s *propertyService) Create(ctx context.Context, property *models.Property, media []AttachmentInput) (*PropertyCreated, error) {
	files, err := decodeAttachments("media", media, s.cfg.ImageMaxSizeMB<<20)
	if err != nil {
		return nil, err
	}
	if _, err := s.landlords.findOne(ctx, bson.M{"auth_id": property.LandlordAuthID}); err != nil {
		return nil, err
	}

	sg := saga.New("create property")
	err = sg.Run(ctx, saga.Step{
		Name:   "insert property",
		Action: func(ctx context.Context) error { return s.store.insert(ctx, property) },
		Compensate: func(ctx context.Context) error {
			_, err := s.store.delete(ctx, bson.M{"_id": property.ID})
			return err
		},
	})
	if err != nil {
		return nil, err
	}

	uploads, err := uploadAll(ctx, s.storage, sg, "properties/"+property.ID.Hex(), files, s.cfg.UploadConcurrency)
	if err != nil {
		return nil, sg.Abort(err)
	}

	now := time.Now().UTC()
	docs := make([]*models.PropertyMedia, 0, len(uploads))
	for _, u := range uploads {
		docs = append(docs, &models.PropertyMedia{
			PropertyID:  property.ID,
			MediaType:   u.object.ContentType,
			MediaURL:    u.object.URL,
			ObjectKey:   u.object.Key,
			Description: u.input.Description,
			UploadDate:  now,
		})
	}
	err = sg.Run(ctx, saga.Step{
		Name:   "insert property media",
		Action: func(ctx context.Context) error { return s.media.insertMany(ctx, docs) },
	})
	if err != nil {
		return nil, err
	}

	enqueueImages(ctx, s.queue, uploads)

	created := &PropertyCreated{Property: property, Media: make([]models.PropertyMedia, 0, len(docs))}
	for _, d := range docs {
		created.Media = append(created.Media, *d)
	}
	return created, nil
}

func (s *propertyService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return s.store.findByID(ctx, id)
}

func (s *propertyService) List(ctx context.Context) ([]models.Property, error) {
	return s.store.find(ctx, nil)
}

func (s *propertyService) ListByLandlord(ctx context.Context, landlordAuthID string) ([]models.Property, error) {
	return s.store.find(ctx, bson.M{"landlord_auth_id": landlordAuthID})
}

// SearchAvailable lists available properties matching filter.
// Address, city and state match case-insensitively as substrings; any listed value may match.
func (s *propertyService) SearchAvailable(ctx context.Context, filter *models.PropertyFilter) ([]models.Property, error) {
	query, err := availableQuery(filter)
	if err != nil {
		return nil, err
	}
	return s.store.find(ctx, query)
}

func (s *propertyService) Update(ctx context.Context, id primitive.ObjectID, patch *models.PropertyPatch) (*models.Property, error) {
	return s.store.patch(ctx, bson.M{"_id": id}, patch)
}

// Delete removes the property only. Media, contracts and applications keep their reference.
func (s *propertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.store.delete(ctx, bson.M{"_id": id})
	return err
}

func availableQuery(filter *models.PropertyFilter) (bson.M, error) {
	query := bson.M{"is_available": true}
	if filter == nil {
		return query, nil
	}

	var and []bson.M
	textFields := []struct {
		field  string
		values []string
	}{
		{"address", filter.Address},
		{"city", filter.City},
		{"state", filter.State},
	}
	for _, tf := range textFields {
		if len(tf.values) == 0 {
			continue
		}
		or := make([]bson.M, 0, len(tf.values))
		for _, v := range tf.values {
			or = append(or, bson.M{tf.field: primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}})
		}
		and = append(and, bson.M{"$or": or})
	}
	if len(filter.Type) > 0 {
		query["type"] = bson.M{"$in": filter.Type}
	}

	intFields := []struct {
		field  string
		values []int
	}{
		{"tier", filter.Tier},
		{"rooms", filter.Rooms},
		{"bathrooms", filter.Bathrooms},
		{"parking", filter.Parking},
	}
	for _, f := range intFields {
		if len(f.values) > 0 {
			query[f.field] = bson.M{"$in": f.values}
		}
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, fieldError("minPrice", "must not exceed maxPrice")
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["rent_price"] = price
	}

	if len(and) > 0 {
		query["$and"] = and
	}
	return query, nil
}

// propertyIDs collects ids for $in lookups on dependent collections.
func propertyIDs(properties []models.Property) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	return ids
}

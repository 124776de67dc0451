package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/saga"
	"github.com/jhunter5/Backend/internal/storage"
)

// ApplicationDetails is an application with its supporting documents and references.
type ApplicationDetails struct {
	Application *models.Application           `json:"application"`
	Media       []models.ApplicationMedia     `json:"media"`
	References  []models.ApplicationReference `json:"references"`
}

// IApplicationService manages rental applications.
type IApplicationService interface {
	Create(ctx context.Context, application *models.Application, media []AttachmentInput, references []models.ApplicationReference) (*ApplicationDetails, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*ApplicationDetails, error)
	List(ctx context.Context) ([]models.Application, error)
	ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Application, error)
	ListByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.Application, error)
	ListByTenant(ctx context.Context, tenantAuthID string) ([]models.Application, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.ApplicationPatch) (*models.Application, error)
	Transition(ctx context.Context, id primitive.ObjectID, next models.ApplicationStatus) (*models.Application, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const (
	applicationsCollection          = "applications"
	applicationMediaCollection      = "application_media"
	applicationReferencesCollection = "application_references"
)

type applicationService struct {
	cfg        *config.Config
	store      *store[models.Application, *models.Application]
	media      *store[models.ApplicationMedia, *models.ApplicationMedia]
	references *store[models.ApplicationReference, *models.ApplicationReference]
	properties *store[models.Property, *models.Property]
	tenants    *store[models.Tenant, *models.Tenant]
	storage    storage.IS3Storage
}

func NewApplicationService(db *mongo.Database, cfg *config.Config, storage storage.IS3Storage) IApplicationService {
	return &applicationService{
		cfg:        cfg,
		store:      newStore[models.Application](db, applicationsCollection, "Application"),
		media:      newStore[models.ApplicationMedia](db, applicationMediaCollection, "Application media"),
		references: newStore[models.ApplicationReference](db, applicationReferencesCollection, "Application reference"),
		properties: newStore[models.Property](db, propertiesCollection, "Property"),
		tenants:    newStore[models.Tenant](db, tenantsCollection, "Tenant"),
		storage:    storage,
	}
}

// Create stores the application, its documents and its references as one unit.
// Every application starts as submitted.
func (s *applicationService) Create(ctx context.Context, application *models.Application, media []AttachmentInput, references []models.ApplicationReference) (*ApplicationDetails, error) {
	for i, m := range media {
		if !models.ApplicationMediaType(m.Type).Valid() {
			return nil, fieldError(fmt.Sprintf("media[%d].type", i), "unknown document type %q", m.Type)
		}
	}
	files, err := decodeAttachments("media", media, s.cfg.ImageMaxSizeMB<<20)
	if err != nil {
		return nil, err
	}
	if _, err := s.properties.findByID(ctx, application.PropertyID); err != nil {
		return nil, err
	}
	if _, err := s.tenants.findOne(ctx, bson.M{"auth_id": application.TenantAuthID}); err != nil {
		return nil, err
	}
	application.Status = models.ApplicationSubmitted

	sg := saga.New("create application")
	err = sg.Run(ctx, saga.Step{
		Name:   "insert application",
		Action: func(ctx context.Context) error { return s.store.insert(ctx, application) },
		Compensate: func(ctx context.Context) error {
			_, err := s.store.delete(ctx, bson.M{"_id": application.ID})
			return err
		},
	})
	if err != nil {
		return nil, err
	}

	uploads, err := uploadAll(ctx, s.storage, sg, "applications/"+application.ID.Hex(), files, s.cfg.UploadConcurrency)
	if err != nil {
		return nil, sg.Abort(err)
	}

	mediaDocs := make([]*models.ApplicationMedia, 0, len(uploads))
	for _, u := range uploads {
		mediaDocs = append(mediaDocs, &models.ApplicationMedia{
			ApplicationID: application.ID,
			MediaType:     u.object.ContentType,
			Type:          models.ApplicationMediaType(u.input.Type),
			MediaURL:      u.object.URL,
			ObjectKey:     u.object.Key,
		})
	}
	err = sg.Run(ctx, saga.Step{
		Name:   "insert application media",
		Action: func(ctx context.Context) error { return s.media.insertMany(ctx, mediaDocs) },
		Compensate: func(ctx context.Context) error {
			return s.media.deleteMany(ctx, bson.M{"application_id": application.ID})
		},
	})
	if err != nil {
		return nil, err
	}

	refDocs := make([]*models.ApplicationReference, 0, len(references))
	for i := range references {
		ref := references[i]
		ref.Base = models.Base{}
		ref.ApplicationID = application.ID
		refDocs = append(refDocs, &ref)
	}
	err = sg.Run(ctx, saga.Step{
		Name:   "insert application references",
		Action: func(ctx context.Context) error { return s.references.insertMany(ctx, refDocs) },
	})
	if err != nil {
		return nil, err
	}

	details := &ApplicationDetails{
		Application: application,
		Media:       make([]models.ApplicationMedia, 0, len(mediaDocs)),
		References:  make([]models.ApplicationReference, 0, len(refDocs)),
	}
	for _, m := range mediaDocs {
		details.Media = append(details.Media, *m)
	}
	for _, r := range refDocs {
		details.References = append(details.References, *r)
	}
	return details, nil
}

func (s *applicationService) FindByID(ctx context.Context, id primitive.ObjectID) (*ApplicationDetails, error) {
	application, err := s.store.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	media, err := s.media.find(ctx, bson.M{"application_id": id})
	if err != nil {
		return nil, err
	}
	refs, err := s.references.find(ctx, bson.M{"application_id": id})
	if err != nil {
		return nil, err
	}
	return &ApplicationDetails{Application: application, Media: media, References: refs}, nil
}

func (s *applicationService) List(ctx context.Context) ([]models.Application, error) {
	return s.store.find(ctx, nil)
}

func (s *applicationService) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Application, error) {
	return s.store.find(ctx, bson.M{"property_id": propertyID})
}

func (s *applicationService) ListByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.Application, error) {
	return s.store.find(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs}})
}

func (s *applicationService) ListByTenant(ctx context.Context, tenantAuthID string) ([]models.Application, error) {
	return s.store.find(ctx, bson.M{"tenant_auth_id": tenantAuthID})
}

func (s *applicationService) Update(ctx context.Context, id primitive.ObjectID, patch *models.ApplicationPatch) (*models.Application, error) {
	return s.store.patch(ctx, bson.M{"_id": id}, patch)
}

// Transition moves the application to next if the lifecycle allows it.
// The update is conditional on the status read, so concurrent transitions cannot both win.
func (s *applicationService) Transition(ctx context.Context, id primitive.ObjectID, next models.ApplicationStatus) (*models.Application, error) {
	if !next.Valid() {
		return nil, fieldError("status", "unknown status %q", next)
	}
	current, err := s.store.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, InvalidTransition("Application", current.Status, next)
	}
	updated, err := s.store.update(ctx, bson.M{"_id": id, "status": current.Status}, bson.M{"status": next})
	if err != nil {
		if IsNotFound(err) {
			return nil, Conflict("Application was modified concurrently")
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the application with its media records, references and stored objects.
func (s *applicationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.store.delete(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	media, err := s.media.find(ctx, bson.M{"application_id": id})
	if err != nil {
		return err
	}
	if err := s.media.deleteMany(ctx, bson.M{"application_id": id}); err != nil {
		return err
	}
	if err := s.references.deleteMany(ctx, bson.M{"application_id": id}); err != nil {
		return err
	}
	for _, m := range media {
		removeObject(ctx, s.storage, m.ObjectKey, m.MediaURL)
	}
	return nil
}

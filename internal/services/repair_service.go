package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/models"
)

// IRepairService tracks maintenance requests through their lifecycle.
type IRepairService interface {
	Create(ctx context.Context, repair *models.Repair) (*models.Repair, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Repair, error)
	List(ctx context.Context) ([]models.Repair, error)
	ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Repair, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.RepairPatch) (*models.Repair, error)
	Transition(ctx context.Context, id primitive.ObjectID, next models.RepairStatus) (*models.Repair, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const repairsCollection = "repairs"

type repairService struct {
	store      *store[models.Repair, *models.Repair]
	properties *store[models.Property, *models.Property]
	now        func() time.Time
}

func NewRepairService(db *mongo.Database) IRepairService {
	return &repairService{
		store:      newStore[models.Repair](db, repairsCollection, "Repair"),
		properties: newStore[models.Property](db, propertiesCollection, "Property"),
		now:        time.Now,
	}
}

// Create files a repair as reported. ReportDate defaults to now.
func (s *repairService) Create(ctx context.Context, repair *models.Repair) (*models.Repair, error) {
	if _, err := s.properties.findByID(ctx, repair.PropertyID); err != nil {
		return nil, err
	}
	repair.Status = models.RepairReported
	repair.ResolutionDate = nil
	if repair.ReportDate.IsZero() {
		repair.ReportDate = s.now().UTC()
	}
	if err := s.store.insert(ctx, repair); err != nil {
		return nil, err
	}
	return repair, nil
}

func (s *repairService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Repair, error) {
	return s.store.findByID(ctx, id)
}

func (s *repairService) List(ctx context.Context) ([]models.Repair, error) {
	return s.store.find(ctx, nil)
}

func (s *repairService) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Repair, error) {
	return s.store.find(ctx, bson.M{"property_id": propertyID})
}

func (s *repairService) Update(ctx context.Context, id primitive.ObjectID, patch *models.RepairPatch) (*models.Repair, error) {
	return s.store.patch(ctx, bson.M{"_id": id}, patch)
}

// Transition moves the repair to next. Resolving stamps the resolution date.
func (s *repairService) Transition(ctx context.Context, id primitive.ObjectID, next models.RepairStatus) (*models.Repair, error) {
	if !next.Valid() {
		return nil, fieldError("status", "unknown status %q", next)
	}
	current, err := s.store.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, InvalidTransition("Repair", current.Status, next)
	}

	set := bson.M{"status": next}
	if next == models.RepairResolved {
		set["resolution_date"] = s.now().UTC()
	}
	updated, err := s.store.update(ctx, bson.M{"_id": id, "status": current.Status}, set)
	if err != nil {
		if IsNotFound(err) {
			return nil, Conflict("Repair was modified concurrently")
		}
		return nil, err
	}
	return updated, nil
}

func (s *repairService) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.store.delete(ctx, bson.M{"_id": id})
	return err
}

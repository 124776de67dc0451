package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/models"
)

// IReviewService stores tenant reviews of landlords and keeps the landlord's average rating current.
type IReviewService interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	ListByLandlord(ctx context.Context, landlordAuthID string) ([]models.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.ReviewPatch) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const reviewsCollection = "reviews"

type reviewService struct {
	store     *store[models.Review, *models.Review]
	landlords *store[models.Landlord, *models.Landlord]
}

func NewReviewService(db *mongo.Database) IReviewService {
	return &reviewService{
		store:     newStore[models.Review](db, reviewsCollection, "Review"),
		landlords: newStore[models.Landlord](db, landlordsCollection, "Landlord"),
	}
}

func (s *reviewService) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if _, err := s.landlords.findOne(ctx, bson.M{"auth_id": review.LandlordAuthID}); err != nil {
		return nil, err
	}
	if review.Date.IsZero() {
		review.Date = time.Now().UTC()
	}
	if err := s.store.insert(ctx, review); err != nil {
		return nil, err
	}
	s.refreshRating(ctx, review.LandlordAuthID)
	return review, nil
}

func (s *reviewService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return s.store.findByID(ctx, id)
}

func (s *reviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.store.find(ctx, nil)
}

func (s *reviewService) ListByLandlord(ctx context.Context, landlordAuthID string) ([]models.Review, error) {
	return s.store.find(ctx, bson.M{"landlord_auth_id": landlordAuthID})
}

func (s *reviewService) Update(ctx context.Context, id primitive.ObjectID, patch *models.ReviewPatch) (*models.Review, error) {
	updated, err := s.store.patch(ctx, bson.M{"_id": id}, patch)
	if err != nil {
		return nil, err
	}
	if patch.Rating != nil {
		s.refreshRating(ctx, updated.LandlordAuthID)
	}
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.store.delete(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	s.refreshRating(ctx, deleted.LandlordAuthID)
	return nil
}

// refreshRating recomputes avg_rating for the landlord. The review itself is already stored,
// so a failure here is logged and the next review write corrects it.
func (s *reviewService) refreshRating(ctx context.Context, landlordAuthID string) {
	if err := s.recomputeRating(ctx, landlordAuthID); err != nil {
		log.Printf("Failed to refresh rating for landlord %s: %v", landlordAuthID, err)
	}
}

func (s *reviewService) recomputeRating(ctx context.Context, landlordAuthID string) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"landlord_auth_id": landlordAuthID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}}},
	}
	cursor, err := s.store.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("error aggregating ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return fmt.Errorf("error decoding rating average: %w", err)
	}
	avg := 0.0
	if len(result) > 0 {
		avg = result[0].Avg
	}

	_, err = s.landlords.update(ctx, bson.M{"auth_id": landlordAuthID}, bson.M{"avg_rating": avg})
	return err
}

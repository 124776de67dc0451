package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/models"
)

// IUserService manages lightweight contact records. Phone numbers are unique.
type IUserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const usersCollection = "users"

type userService struct {
	store *store[models.User, *models.User]
}

func NewUserService(db *mongo.Database) IUserService {
	st := newStore[models.User](db, usersCollection, "User")
	st.conflict = func(error) error { return Conflict("A user with this phone already exists") }
	return &userService{store: st}
}

func (s *userService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	taken, err := s.store.exists(ctx, bson.M{"phone": user.Phone})
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Conflict("A user with this phone already exists")
	}
	if err := s.store.insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.store.findByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.store.find(ctx, nil)
}

func (s *userService) Update(ctx context.Context, id primitive.ObjectID, patch *models.UserPatch) (*models.User, error) {
	return s.store.patch(ctx, bson.M{"_id": id}, patch)
}

func (s *userService) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.store.delete(ctx, bson.M{"_id": id})
	return err
}

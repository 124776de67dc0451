package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/models"
)

// ProfileStatus tells the client whether an authenticated user finished onboarding.
type ProfileStatus struct {
	HasProfile bool    `json:"hasProfile"`
	Role       *string `json:"role"`
}

// IProfileService resolves which kind of profile an identity has.
type IProfileService interface {
	VerifyProfile(ctx context.Context, authID string) (*ProfileStatus, error)
}

type profileService struct {
	db *mongo.Database
}

func NewProfileService(db *mongo.Database) IProfileService {
	return &profileService{db: db}
}

// VerifyProfile checks tenants first, then landlords.
func (s *profileService) VerifyProfile(ctx context.Context, authID string) (*ProfileStatus, error) {
	if strings.TrimSpace(authID) == "" {
		return nil, fieldError("userId", "is required")
	}

	lookups := []struct {
		collection string
		role       string
	}{
		{tenantsCollection, "Tenant"},
		{landlordsCollection, "Landlord"},
	}
	for _, l := range lookups {
		n, err := s.db.Collection(l.collection).CountDocuments(ctx, bson.M{"auth_id": authID})
		if err != nil {
			return nil, fmt.Errorf("error checking %s profile for %s: %w", strings.ToLower(l.role), authID, err)
		}
		if n > 0 {
			role := l.role
			return &ProfileStatus{HasProfile: true, Role: &role}, nil
		}
	}
	return &ProfileStatus{HasProfile: false}, nil
}

// checkProfileUnique returns a Conflict naming the first identifier already taken in coll.
func checkProfileUnique(ctx context.Context, coll *mongo.Collection, entity string, p models.Profile) error {
	checks := []struct {
		field string
		value interface{}
		label string
	}{
		{"auth_id", p.AuthID, "authID"},
		{"national_id", p.NationalID, "national id"},
		{"email", p.Email, "email"},
	}
	for _, c := range checks {
		n, err := coll.CountDocuments(ctx, bson.M{c.field: c.value})
		if err != nil {
			return fmt.Errorf("error checking %s uniqueness: %w", c.label, err)
		}
		if n > 0 {
			return Conflict("A %s with this %s already exists", entity, c.label)
		}
	}
	return nil
}

// profileConflict names the identifier behind a duplicate key error from the unique indexes.
func profileConflict(entity string) func(error) error {
	return func(err error) error {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "auth_id"):
			return Conflict("A %s with this authID already exists", entity)
		case strings.Contains(msg, "national_id"):
			return Conflict("A %s with this national id already exists", entity)
		case strings.Contains(msg, "email"):
			return Conflict("A %s with this email already exists", entity)
		}
		return Conflict("%s already exists", entity)
	}
}

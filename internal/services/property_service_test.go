package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/utils"
)

func TestAvailableQuery(t *testing.T) {
	t.Run("nil filter lists every available property", func(t *testing.T) {
		q, err := availableQuery(nil)
		require.NoError(t, err)
		assert.Equal(t, bson.M{"is_available": true}, q)
	})

	t.Run("text fields are escaped case-insensitive regexes", func(t *testing.T) {
		q, err := availableQuery(&models.PropertyFilter{City: []string{"bog.ta", "Medellín"}})
		require.NoError(t, err)
		and := q["$and"].([]bson.M)
		require.Len(t, and, 1)
		or := and[0]["$or"].([]bson.M)
		require.Len(t, or, 2)
		assert.Equal(t, primitive.Regex{Pattern: `bog\.ta`, Options: "i"}, or[0]["city"])
	})

	t.Run("exact fields and price range", func(t *testing.T) {
		lo, hi := 100.0, 900.0
		q, err := availableQuery(&models.PropertyFilter{Rooms: []int{2, 3}, Type: []string{"apartment"}, MinPrice: &lo, MaxPrice: &hi})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"$in": []int{2, 3}}, q["rooms"])
		assert.Equal(t, bson.M{"$in": []string{"apartment"}}, q["type"])
		assert.Equal(t, bson.M{"$gte": 100.0, "$lte": 900.0}, q["rent_price"])
		assert.NotContains(t, q, "$and")
	})

	t.Run("inverted price range", func(t *testing.T) {
		lo, hi := 900.0, 100.0
		_, err := availableQuery(&models.PropertyFilter{MinPrice: &lo, MaxPrice: &hi})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func testConfig() *config.Config {
	return &config.Config{ImageMaxSizeMB: 5, UploadConcurrency: 2}
}

func setupRentalDB(t *testing.T, name string) *mongo.Database {
	db := utils.SetupTestDB(t, name,
		landlordsCollection, tenantsCollection, usersCollection, propertiesCollection,
		propertyMediaCollection, contractsCollection, contractDocumentsCollection,
		applicationsCollection, applicationMediaCollection, applicationReferencesCollection,
		reviewsCollection, repairsCollection, appointmentsCollection)
	require.NoError(t, EnsureIndexes(context.Background(), db))
	return db
}

func seedLandlord(t *testing.T, db *mongo.Database, authID string, nationalID int64) *models.Landlord {
	t.Helper()
	svc := NewLandlordService(db, testConfig(), newFakeStorage(), &fakeQueue{})
	landlord, err := svc.Create(context.Background(), &models.Landlord{Profile: models.Profile{
		NationalID: nationalID,
		AuthID:     authID,
		FirstName:  "Laura",
		LastName:   "Gomez",
		Gender:     models.GenderFemale,
		Phone:      "3001234567",
		Email:      authID + "@example.com",
	}}, nil)
	require.NoError(t, err)
	return landlord
}

func TestPropertyService_CreateWithMedia(t *testing.T) {
	db := setupRentalDB(t, "testdb_property_create")
	ctx := context.Background()
	seedLandlord(t, db, "auth0|landlord", 10101010)

	store := newFakeStorage()
	queue := &fakeQueue{}
	svc := NewPropertyService(db, testConfig(), store, queue)

	created, err := svc.Create(ctx, &models.Property{
		LandlordAuthID: "auth0|landlord",
		Address:        "Calle 10 # 5-20",
		City:           "Bogota",
		State:          "Cundinamarca",
		Type:           "apartment",
		SquareMeters:   60,
		IsAvailable:    true,
		RentPrice:      1200,
	}, []AttachmentInput{pngInput("front.png"), textInput("rules.txt", "no pets")})
	require.NoError(t, err)
	require.Len(t, created.Media, 2)
	assert.Equal(t, created.Property.ID, created.Media[0].PropertyID)
	assert.Equal(t, 2, store.stored())
	assert.Len(t, queue.media, 1, "only images are queued for processing")

	found, err := svc.FindByID(ctx, created.Property.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bogota", found.City)

	media, err := NewPropertyMediaService(db, testConfig(), store, queue).ListByProperty(ctx, created.Property.ID)
	require.NoError(t, err)
	assert.Len(t, media, 2)
}

func TestPropertyService_CreateThenFindRoundTrip(t *testing.T) {
	db := setupRentalDB(t, "testdb_property_roundtrip")
	ctx := context.Background()
	seedLandlord(t, db, "auth0|landlord", 10101010)

	svc := NewPropertyService(db, testConfig(), newFakeStorage(), &fakeQueue{})
	want := models.Property{
		LandlordAuthID: "auth0|landlord",
		Address:        "Calle 93 # 11-27",
		City:           "Bogota",
		State:          "Cundinamarca",
		Type:           "apartment",
		Rooms:          3,
		Parking:        1,
		SquareMeters:   82.5,
		Tier:           4,
		Bathrooms:      2,
		Age:            12,
		Floors:         1,
		Description:    "Corner unit with balcony",
		IsAvailable:    true,
		RentPrice:      2350000,
	}
	input := want

	created, err := svc.Create(ctx, &input, nil)
	require.NoError(t, err)
	require.False(t, created.Property.ID.IsZero())

	found, err := svc.FindByID(ctx, created.Property.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Property.ID, found.ID)

	got := *found
	got.Base = models.Base{}
	assert.Equal(t, want, got)
}

func TestPropertyService_CreateRollsBackOnUploadFailure(t *testing.T) {
	db := setupRentalDB(t, "testdb_property_rollback")
	ctx := context.Background()
	seedLandlord(t, db, "auth0|landlord", 10101010)

	store := newFakeStorage("2.png")
	svc := NewPropertyService(db, testConfig(), store, &fakeQueue{})

	_, err := svc.Create(ctx, &models.Property{
		LandlordAuthID: "auth0|landlord",
		Address:        "Carrera 7",
		City:           "Bogota",
		State:          "Cundinamarca",
		Type:           "house",
		SquareMeters:   90,
		IsAvailable:    true,
	}, []AttachmentInput{pngInput("1.png"), pngInput("2.png"), pngInput("3.png")})
	require.Error(t, err)
	assert.True(t, IsUploadError(err))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 0, store.stored())
	n, err := db.Collection(propertyMediaCollection).CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPropertyService_CreateRequiresLandlord(t *testing.T) {
	db := setupRentalDB(t, "testdb_property_landlord")
	svc := NewPropertyService(db, testConfig(), newFakeStorage(), &fakeQueue{})

	_, err := svc.Create(context.Background(), &models.Property{LandlordAuthID: "auth0|ghost", City: "Cali"}, nil)
	assert.True(t, IsNotFound(err))
}

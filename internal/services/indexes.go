package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func unique(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetName(field + "_1").SetUnique(true),
	}
}

func lookup(fields ...string) mongo.IndexModel {
	keys := bson.D{}
	name := ""
	for i, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
		if i > 0 {
			name += "_"
		}
		name += f + "_1"
	}
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

// collectionIndexes backs the uniqueness checks and the filters used by the services.
// Duplicate-key errors are mapped to a field by index name, so names must contain the field.
var collectionIndexes = map[string][]mongo.IndexModel{
	landlordsCollection: {unique("auth_id"), unique("national_id"), unique("email")},
	tenantsCollection:   {unique("auth_id"), unique("national_id"), unique("email")},
	usersCollection:     {unique("phone")},
	propertiesCollection: {
		lookup("landlord_auth_id"),
		lookup("is_available", "rent_price"),
	},
	propertyMediaCollection:         {lookup("property_id")},
	contractsCollection:             {lookup("property_id", "start_date"), lookup("tenant_auth_id"), lookup("status", "end_date")},
	contractDocumentsCollection:     {lookup("contract_id")},
	applicationsCollection:          {lookup("property_id"), lookup("tenant_auth_id")},
	applicationMediaCollection:      {lookup("application_id")},
	applicationReferencesCollection: {lookup("application_id")},
	paymentsCollection:              {lookup("contract_id")},
	reviewsCollection:               {lookup("landlord_auth_id")},
	repairsCollection:               {lookup("property_id")},
	appointmentsCollection:          {lookup("landlord_auth_id", "date"), lookup("tenant_auth_id", "date")},
	landlordPreferencesCollection:   {lookup("landlord_auth_id")},
	tenantPreferencesCollection:     {lookup("tenant_auth_id")},
}

// EnsureIndexes creates the indexes every service relies on. Existing indexes are left as they are.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range collectionIndexes {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", collection, err)
		}
		log.Printf("Ensured indexes on %s: %v", collection, names)
	}
	return nil
}

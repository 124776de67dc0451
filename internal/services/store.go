package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhunter5/Backend/internal/db"
	"github.com/jhunter5/Backend/internal/models"
)

// newestFirst is the listing order for every collection: created_at descending, _id ascending.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}

// store wraps the CRUD calls shared by every entity collection.
type store[T any, PT interface {
	*T
	models.IBase
}] struct {
	coll   *mongo.Collection
	entity string
	// conflict builds the error returned on a duplicate key.
	conflict func(err error) error
}

func newStore[T any, PT interface {
	*T
	models.IBase
}](database *mongo.Database, collection, entity string) *store[T, PT] {
	return &store[T, PT]{
		coll:   database.Collection(collection),
		entity: entity,
		conflict: func(error) error {
			return Conflict("%s already exists", entity)
		},
	}
}

func (s *store[T, PT]) insert(ctx context.Context, doc PT) error {
	doc.GenIDIfEmpty()
	doc.Touch(time.Now().UTC())
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return s.conflict(err)
		}
		return fmt.Errorf("error inserting %s: %w", s.entity, err)
	}
	return nil
}

func (s *store[T, PT]) insertMany(ctx context.Context, docs []PT) error {
	if len(docs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	batch := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		d.GenIDIfEmpty()
		d.Touch(now)
		batch = append(batch, d)
	}
	if _, err := s.coll.InsertMany(ctx, batch); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return s.conflict(err)
		}
		return fmt.Errorf("error inserting %s records: %w", s.entity, err)
	}
	return nil
}

func (s *store[T, PT]) findByID(ctx context.Context, id primitive.ObjectID) (PT, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *store[T, PT]) findOne(ctx context.Context, filter bson.M) (PT, error) {
	var doc T
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFound(s.entity)
		}
		return nil, fmt.Errorf("error finding %s: %w", s.entity, err)
	}
	return PT(&doc), nil
}

// find returns matching documents newest first. A nil filter matches everything.
func (s *store[T, PT]) find(ctx context.Context, filter bson.M) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("error listing %s records: %w", s.entity, err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding %s records: %w", s.entity, err)
	}
	return docs, nil
}

func (s *store[T, PT]) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking %s: %w", s.entity, err)
	}
	return n > 0, nil
}

// patch applies the non-nil fields of patch to the document matching filter and returns the result.
func (s *store[T, PT]) patch(ctx context.Context, filter bson.M, patch interface{}) (PT, error) {
	set, err := toSet(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, Invalid("no fields to update")
	}
	return s.update(ctx, filter, set)
}

// update sets the given fields and stamps updated_at.
func (s *store[T, PT]) update(ctx context.Context, filter bson.M, set bson.M) (PT, error) {
	set["updated_at"] = time.Now().UTC()

	var doc T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFound(s.entity)
		}
		if db.IsMongoDuplicateKeyError(err) {
			return nil, s.conflict(err)
		}
		return nil, fmt.Errorf("error updating %s: %w", s.entity, err)
	}
	return PT(&doc), nil
}

// delete removes the document matching filter and returns it.
func (s *store[T, PT]) delete(ctx context.Context, filter bson.M) (PT, error) {
	var doc T
	err := s.coll.FindOneAndDelete(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFound(s.entity)
		}
		return nil, fmt.Errorf("error deleting %s: %w", s.entity, err)
	}
	return PT(&doc), nil
}

func (s *store[T, PT]) deleteMany(ctx context.Context, filter bson.M) error {
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("error deleting %s records: %w", s.entity, err)
	}
	return nil
}

// toSet converts a patch struct with omitempty pointer fields into a $set document.
func toSet(patch interface{}) (bson.M, error) {
	raw, err := bson.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("error encoding update: %w", err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("error encoding update: %w", err)
	}
	return set, nil
}

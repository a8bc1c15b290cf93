package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is a typed view over one MongoDB collection.
type Collection[T any] struct {
	coll *mongo.Collection
}

func NewCollection[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll}
}

func (s *Collection[T]) Name() string {
	return s.coll.Name()
}

// Find returns every matching document; never nil.
func (s *Collection[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.coll.Name(), err)
	}
	return docs, nil
}

func (s *Collection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load from %s: %w", s.coll.Name(), err)
	}
	return &doc, nil
}

func (s *Collection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return s.FindOne(ctx, bson.M{"_id": id})
}

func (s *Collection[T]) Insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert into %s: %w", s.coll.Name(), err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected id type %T from %s", res.InsertedID, s.coll.Name())
	}
	return id, nil
}

// InsertIfAbsent inserts doc only when nothing matches key, in one
// conditional upsert. ErrDuplicate is returned when a match exists.
func (s *Collection[T]) InsertIfAbsent(ctx context.Context, key bson.M, doc *T) (primitive.ObjectID, error) {
	res, err := s.coll.UpdateOne(ctx, key,
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to upsert into %s: %w", s.coll.Name(), err)
	}
	if res.UpsertedCount == 0 || res.UpsertedID == nil {
		return primitive.NilObjectID, ErrDuplicate
	}
	id, ok := res.UpsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected id type %T from %s", res.UpsertedID, s.coll.Name())
	}
	return id, nil
}

// UpdateByID applies a partial $set, stamps updatedAt and returns the
// updated document.
func (s *Collection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*T, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = time.Now()

	var doc T
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, ErrDuplicate
	case err != nil:
		return nil, fmt.Errorf("failed to update %s: %w", s.coll.Name(), err)
	}
	return &doc, nil
}

func (s *Collection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteOne(ctx, bson.M{"_id": id})
}

// DeleteOne returns ErrNotFound when nothing matched.
func (s *Collection[T]) DeleteOne(ctx context.Context, filter bson.M) error {
	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Collection[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", s.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

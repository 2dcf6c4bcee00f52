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

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
)

// collection is the CRUD plumbing shared by the resource services.
type collection[T any] struct {
	coll     *mongo.Collection
	noun     string
	touchAll bool
}

func newCollection[T any](db *mongo.Database, name, noun string, hasUpdatedAt bool) collection[T] {
	return collection[T]{coll: db.Collection(name), noun: noun, touchAll: hasUpdatedAt}
}

func (c collection[T]) notFound() error {
	return apperr.NotFoundErr(c.noun + " not found")
}

func (c collection[T]) insert(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, apperr.ConflictErr(c.noun + " already exists")
		}
		return primitive.NilObjectID, apperr.PersistenceErr(fmt.Errorf("insert %s: %w", c.noun, err))
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// list returns matching documents oldest first, capped at limit when limit > 0.
func (c collection[T]) list(ctx context.Context, filter bson.M, limit int64) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.PersistenceErr(fmt.Errorf("fetch %s list: %w", c.noun, err))
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.PersistenceErr(fmt.Errorf("decode %s list: %w", c.noun, err))
	}
	return out, nil
}

func (c collection[T]) get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var out T
	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound()
		}
		return nil, apperr.PersistenceErr(fmt.Errorf("fetch %s %s: %w", c.noun, id.Hex(), err))
	}
	return &out, nil
}

// replace overwrites every field of the document except _id and created_at
// and returns the stored result.
func (c collection[T]) replace(ctx context.Context, id primitive.ObjectID, doc any) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, apperr.Wrap(err)
	}
	delete(set, "_id")
	delete(set, "created_at")
	if c.touchAll {
		set["updated_at"] = time.Now()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	err = c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound()
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ConflictErr(c.noun + " already exists")
		}
		return nil, apperr.PersistenceErr(fmt.Errorf("update %s %s: %w", c.noun, id.Hex(), err))
	}
	return &out, nil
}

func (c collection[T]) remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.PersistenceErr(fmt.Errorf("delete %s %s: %w", c.noun, id.Hex(), err))
	}
	if res.DeletedCount == 0 {
		return c.notFound()
	}
	return nil
}

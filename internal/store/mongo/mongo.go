// Package mongo stores each entity kind as documents in its own collection.
// Identity tokens are ObjectIDs; their embedded timestamp is the creation time.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/store"
)

var collections = map[entity.Kind]string{
	entity.KindAuthor:  "authors",
	entity.KindBook:    "books",
	entity.KindChapter: "chapters",
}

// Open connects and pings the primary.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

type record[T any] struct {
	ID        primitive.ObjectID `bson:"_id"`
	Data      T                  `bson:",inline"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type Collection[T entity.Profile] struct {
	coll *mongo.Collection
}

func New[T entity.Profile](db *mongo.Database, kind entity.Kind) *Collection[T] {
	name, ok := collections[kind]
	if !ok {
		panic(fmt.Sprintf("mongo: no collection for kind %q", kind))
	}
	return &Collection[T]{coll: db.Collection(name)}
}

// EnsureIndexes creates the unique (asin, region) index.
func (c *Collection[T]) EnsureIndexes(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "asin", Value: 1}, {Key: "region", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// filter matches asin and either the region or a document without one.
func filter(f store.Filter) bson.D {
	return bson.D{
		{Key: "asin", Value: f.Asin},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "region", Value: f.Region}},
			bson.D{{Key: "region", Value: bson.D{{Key: "$exists", Value: false}}}},
		}},
	}
}

// Region-specific documents sort ahead of region-less ones.
var preferRegion = bson.D{{Key: "region", Value: -1}}

func (c *Collection[T]) Insert(ctx context.Context, data T) error {
	id := primitive.NewObjectID()
	created := id.Timestamp()
	_, err := c.coll.InsertOne(ctx, record[T]{ID: id, Data: data, CreatedAt: created, UpdatedAt: created})
	return err
}

func (c *Collection[T]) FindOne(ctx context.Context, f store.Filter) (entity.Document[T], bool, error) {
	var rec record[T]
	err := c.coll.FindOne(ctx, filter(f), options.FindOne().SetSort(preferRegion)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.Document[T]{}, false, nil
	}
	if err != nil {
		return entity.Document[T]{}, false, err
	}
	return entity.Document[T]{
		Meta: entity.Meta{ID: rec.ID.Hex(), CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt},
		Data: rec.Data,
	}, true, nil
}

var profileProjection = bson.D{
	{Key: "_id", Value: 0},
	{Key: "createdAt", Value: 0},
	{Key: "updatedAt", Value: 0},
}

func (c *Collection[T]) FindProfile(ctx context.Context, f store.Filter) (T, bool, error) {
	var data T
	opts := options.FindOne().SetSort(preferRegion).SetProjection(profileProjection)
	err := c.coll.FindOne(ctx, filter(f), opts).Decode(&data)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return data, true, nil
}

// Update replaces the document body in place. The server stamps updatedAt.
func (c *Collection[T]) Update(ctx context.Context, f store.Filter, data T, createdAt time.Time) error {
	doc, found, err := c.FindOne(ctx, f)
	if err != nil {
		return err
	}
	if !found {
		return entity.ErrNotFound
	}
	id, err := primitive.ObjectIDFromHex(doc.ID)
	if err != nil {
		return err
	}
	update := mongo.Pipeline{
		{{Key: "$replaceWith", Value: bson.D{{Key: "$mergeObjects", Value: bson.A{
			bson.D{{Key: "_id", Value: "$_id"}},
			bson.D{{Key: "$literal", Value: data}},
			bson.D{{Key: "createdAt", Value: createdAt}, {Key: "updatedAt", Value: "$$NOW"}},
		}}}}},
	}
	res, err := c.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// Delete removes the single document FindOne would return.
func (c *Collection[T]) Delete(ctx context.Context, f store.Filter) (bool, error) {
	err := c.coll.FindOneAndDelete(ctx, filter(f), options.FindOneAndDelete().SetSort(preferRegion)).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Collection[T]) CreatedAt(meta entity.Meta) (time.Time, error) {
	id, err := primitive.ObjectIDFromHex(meta.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse identity token: %w", err)
	}
	return id.Timestamp(), nil
}

func (c *Collection[T]) Ping(ctx context.Context) error {
	return c.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// Authors adds $text name search to the author collection.
type Authors struct {
	*Collection[entity.Author]
}

func NewAuthors(db *mongo.Database) *Authors {
	return &Authors{Collection: New[entity.Author](db, entity.KindAuthor)}
}

// EnsureIndexes adds the name text index on top of the shared indexes.
func (a *Authors) EnsureIndexes(ctx context.Context) error {
	if err := a.Collection.EnsureIndexes(ctx); err != nil {
		return err
	}
	_, err := a.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: "text"}},
	})
	return err
}

func (a *Authors) SearchByName(ctx context.Context, name string, limit int) ([]entity.AuthorMatch, error) {
	score := bson.D{{Key: "$meta", Value: "textScore"}}
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "asin", Value: 1}, {Key: "name", Value: 1}, {Key: "score", Value: score}}).
		SetSort(bson.D{{Key: "score", Value: score}}).
		SetLimit(int64(limit))
	cur, err := a.coll.Find(ctx, bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: name}}}}, opts)
	if err != nil {
		return nil, err
	}
	var out []entity.AuthorMatch
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

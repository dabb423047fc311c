// internal/app/realtime/mongosource.go
package realtime

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSource implements Store on top of mongo change streams. Each watch
// opens its own stream; on every stream event the current state is
// re-read with a plain query, so every push is a full snapshot regardless
// of what kind of event fired. Requires a replica set (standalone mongod
// does not support change streams).
type MongoSource struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewMongoSource(db *mongo.Database, logger *zap.Logger) *MongoSource {
	return &MongoSource{db: db, log: logger}
}

// WatchDocument delivers the document's current state, then again after
// every insert/update/replace/delete touching it. After an unrecoverable
// stream error the subscriber sees one absent push and the watch ends.
func (m *MongoSource) WatchDocument(ctx context.Context, collection string, id interface{}, fn DocumentHandler) (CancelFunc, error) {
	coll := m.db.Collection(collection)

	// Match on documentKey so deletes (which carry no fullDocument) still
	// fire. The snapshot itself always comes from a re-read.
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"documentKey._id": id}}},
	}
	stream, err := coll.Watch(ctx, pipe)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	fetch := func() (Snapshot, error) {
		var fields bson.M
		err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&fields)
		if err == mongo.ErrNoDocuments {
			return Snapshot{}, nil
		}
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Exists: true, Fields: fields}, nil
	}

	snap, err := fetch()
	if err != nil {
		cancel()
		stream.Close(context.Background())
		return nil, err
	}
	fn(snap)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			snap, err := fetch()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				m.log.Warn("document watch re-read failed",
					zap.String("collection", collection),
					zap.Any("id", id),
					zap.Error(err))
				fn(Snapshot{})
				return
			}
			fn(snap)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			m.log.Warn("document watch stream closed",
				zap.String("collection", collection),
				zap.Any("id", id),
				zap.Error(err))
			fn(Snapshot{})
		}
	}()

	return func() { cancel() }, nil
}

// WatchQuery delivers the full matching set, then again after any change
// to the collection. The stream is not filtered: a document leaving the
// result set is as interesting as one entering it, and the filters we run
// are too small for collection-level fan-in to matter.
func (m *MongoSource) WatchQuery(ctx context.Context, collection string, filter bson.M, fn QueryHandler) (CancelFunc, error) {
	coll := m.db.Collection(collection)

	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	fetch := func() ([]Document, error) {
		cur, err := coll.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)

		var docs []Document
		for cur.Next(ctx) {
			var fields bson.M
			if err := cur.Decode(&fields); err != nil {
				return nil, err
			}
			docs = append(docs, Document{ID: fields["_id"], Fields: fields})
		}
		return docs, cur.Err()
	}

	docs, err := fetch()
	if err != nil {
		cancel()
		stream.Close(context.Background())
		return nil, err
	}
	fn(docs)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			docs, err := fetch()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				m.log.Warn("query watch re-read failed",
					zap.String("collection", collection),
					zap.Error(err))
				fn(nil)
				return
			}
			fn(docs)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			m.log.Warn("query watch stream closed",
				zap.String("collection", collection),
				zap.Error(err))
			fn(nil)
		}
	}()

	return func() { cancel() }, nil
}

// WriteDocument sets fields on a document, upserting it. With merge=false
// the document is replaced.
func (m *MongoSource) WriteDocument(ctx context.Context, collection string, id interface{}, fields bson.M, merge bool) error {
	coll := m.db.Collection(collection)
	if merge {
		_, err := coll.UpdateByID(ctx, id,
			bson.M{"$set": fields}, options.Update().SetUpsert(true))
		return err
	}
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, fields,
		options.Replace().SetUpsert(true))
	return err
}

func (m *MongoSource) CreateDocument(ctx context.Context, collection string, fields bson.M) (primitive.ObjectID, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, fields)
	if err != nil {
		return primitive.NilObjectID, err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, nil
	}
	return oid, nil
}

func (m *MongoSource) DeleteDocument(ctx context.Context, collection string, id interface{}) error {
	_, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (m *MongoSource) IncrementField(ctx context.Context, collection string, id interface{}, field string, delta int64) error {
	_, err := m.db.Collection(collection).UpdateByID(ctx, id,
		bson.M{"$inc": bson.M{field: delta}})
	return err
}

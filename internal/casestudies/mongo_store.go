package casestudies

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterName = "case_studies"

type MongoStore struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoStore(col, counters *mongo.Collection) *MongoStore {
	return &MongoStore{col: col, counters: counters}
}

func (s *MongoStore) NextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx, bson.M{"_id": counterName}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (s *MongoStore) Insert(ctx context.Context, rec Record) error {
	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugExists
		}
		return err
	}
	// Records inserted with a caller-chosen id must not be handed out again.
	_, err := s.counters.UpdateOne(ctx,
		bson.M{"_id": counterName},
		bson.M{"$max": bson.M{"seq": rec.ID}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Replace(ctx context.Context, rec Record) (bool, error) {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": rec.ID, "type": RecordType}, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, ErrSlugExists
		}
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) Get(ctx context.Context, id int64) (Record, error) {
	var doc bson.M
	if err := s.col.FindOne(ctx, bson.M{"_id": id, "type": RecordType}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return decodeRecord(doc)
}

func (s *MongoStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "type": RecordType})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) Find(ctx context.Context, q RecordQuery) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "published_at", Value: -1},
			{Key: "_id", Value: -1},
		})
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if q.Offset > 0 {
		opts.SetSkip(q.Offset)
	}

	cursor, err := s.col.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Record, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoStore) Count(ctx context.Context, q RecordQuery) (int64, error) {
	return s.col.CountDocuments(ctx, buildFilter(q))
}

// Migrate rewrites every stored document older than CurrentSchemaVersion.
func (s *MongoStore) Migrate(ctx context.Context) (int, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"schema_version": bson.M{"$exists": false}},
			bson.M{"schema_version": bson.M{"$lt": CurrentSchemaVersion}},
		},
	}
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	migrated := 0
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return migrated, err
		}
		changed, err := UpgradeDocument(doc)
		if err != nil {
			return migrated, err
		}
		if !changed {
			continue
		}
		if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc["_id"]}, doc); err != nil {
			return migrated, err
		}
		migrated++
	}
	return migrated, cursor.Err()
}

func buildFilter(q RecordQuery) bson.M {
	filter := bson.M{"type": RecordType}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Slug != "" {
		filter["slug"] = q.Slug
	}
	if q.Technology != "" {
		filter["meta.technologies"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Technology), Options: "i"}
	}
	return filter
}

func decodeRecord(doc bson.M) (Record, error) {
	if _, err := UpgradeDocument(doc); err != nil {
		return Record{}, err
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

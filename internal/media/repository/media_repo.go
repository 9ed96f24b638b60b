package repository

import (
	"context"
	"errors"
	"time"

	"folio_service/internal/media/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrRecordNotFound the record id matched no document
var ErrRecordNotFound = errors.New("media record not found")

// MediaRepo definition get media record info
type MediaRepo interface {
	Create(ctx context.Context, record *domain.MediaRecord) error
	GetByID(ctx context.Context, id string) (*domain.MediaRecord, error)
	UpdateSource(ctx context.Context, id, fileName, sourceURL string) error
	UpdatePoster(ctx context.Context, id, posterURL string) error
	UpdateStatus(ctx context.Context, id string, status domain.MediaStatus) error
	FinalizeReady(ctx context.Context, id string, durationSeconds float64, posterURL string) error
	SearchMedia(ctx context.Context, keyword string) ([]domain.MediaRecord, error)
	RecommendMedia(ctx context.Context, limit int) ([]domain.MediaRecord, error)
	IncrementViewCount(ctx context.Context, id string) error
}

type mediaRepo struct {
	coll *mongo.Collection
}

// NewMediaRepo create MediaRepo backed by the media collection
func NewMediaRepo(db *mongo.Database) MediaRepo {
	return &mediaRepo{coll: db.Collection("media")}
}

// Create insert a new media record
func (r *mediaRepo) Create(ctx context.Context, record *domain.MediaRecord) error {
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, record)
	return err
}

// GetByID get media record by id
func (r *mediaRepo) GetByID(ctx context.Context, id string) (*domain.MediaRecord, error) {
	var record domain.MediaRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// patch applies a $set on the named fields only, always bumping updated_at.
// The filter is scoped to exactly one _id so the write can never touch
// another record.
func (r *mediaRepo) patch(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdateSource record where the original bytes ended up
func (r *mediaRepo) UpdateSource(ctx context.Context, id, fileName, sourceURL string) error {
	return r.patch(ctx, id, bson.M{"file_name": fileName, "source_url": sourceURL})
}

// UpdatePoster point the record at a freshly published thumbnail
func (r *mediaRepo) UpdatePoster(ctx context.Context, id, posterURL string) error {
	return r.patch(ctx, id, bson.M{"poster_url": posterURL})
}

// UpdateStatus move the record through the upload lifecycle
func (r *mediaRepo) UpdateStatus(ctx context.Context, id string, status domain.MediaStatus) error {
	return r.patch(ctx, id, bson.M{"status": string(status)})
}

// FinalizeReady set duration, default poster and ready status in one patch
func (r *mediaRepo) FinalizeReady(ctx context.Context, id string, durationSeconds float64, posterURL string) error {
	return r.patch(ctx, id, bson.M{
		"duration_seconds": durationSeconds,
		"poster_url":       posterURL,
		"status":           string(domain.MediaReady),
	})
}

// SearchMedia keyword match on title, description or tags of ready records
func (r *mediaRepo) SearchMedia(ctx context.Context, keyword string) ([]domain.MediaRecord, error) {
	pattern := bson.M{"$regex": keyword, "$options": "i"}
	filter := bson.M{
		"status": string(domain.MediaReady),
		"$or": []bson.M{
			{"title": pattern},
			{"description": pattern},
			{"tags": keyword},
		},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.MediaRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RecommendMedia most viewed ready records first
func (r *mediaRepo) RecommendMedia(ctx context.Context, limit int) ([]domain.MediaRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "view_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"status": string(domain.MediaReady)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.MediaRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// IncrementViewCount bump the view counter without rewriting the record
func (r *mediaRepo) IncrementViewCount(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"view_count": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

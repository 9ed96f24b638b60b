package repository

import (
	"context"
	"errors"
	"time"

	"folio_service/internal/portfolio/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrProfileNotFound the member has no profile document
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepo portfolio profile documents
type ProfileRepo interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
	GetByMemberID(ctx context.Context, memberID string) (*domain.Profile, error)
	SearchProfiles(ctx context.Context, keyword string) ([]domain.Profile, error)
}

type profileRepo struct {
	coll *mongo.Collection
}

// NewProfileRepo create ProfileRepo backed by the profiles collection
func NewProfileRepo(db *mongo.Database) ProfileRepo {
	return &profileRepo{coll: db.Collection("profiles")}
}

// Upsert writes the whole profile, creating it on first save.
func (r *profileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	now := time.Now()
	profile.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"display_name": profile.DisplayName,
			"headline":     profile.Headline,
			"bio":          profile.Bio,
			"skills":       profile.Skills,
			"website":      profile.Website,
			"updated_at":   profile.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": profile.MemberID}, update, options.Update().SetUpsert(true))
	return err
}

// GetByMemberID get one profile by member id
func (r *profileRepo) GetByMemberID(ctx context.Context, memberID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.coll.FindOne(ctx, bson.M{"_id": memberID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// SearchProfiles keyword match on display name, headline or skills
func (r *profileRepo) SearchProfiles(ctx context.Context, keyword string) ([]domain.Profile, error) {
	pattern := bson.M{"$regex": keyword, "$options": "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"display_name": pattern},
			{"headline": pattern},
			{"skills": keyword},
		},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []domain.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

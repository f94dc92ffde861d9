package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/model"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
)

// ProfileRepository defines the profile store operations used by registration.
type ProfileRepository interface {
	// InsertProfile stores a new profile. It fails with ErrProfileAlreadyExists
	// when a profile with the same ID is already stored.
	InsertProfile(ctx context.Context, profile *model.Profile) error

	// GetProfileByID returns ErrProfileNotFound when no profile has the ID.
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)

	// GetProfileByActivationCode returns ErrProfileNotFound when no profile has the code.
	GetProfileByActivationCode(ctx context.Context, code string) (*model.Profile, error)
}

const profileCollection = "profiles"

type profileMongoRepository struct {
	db *mongo.Database
}

// NewProfileMongoRepository creates the profile repository and its indexes.
// The activation_code index is not unique: uniqueness of activation codes is
// checked before insert, not enforced by the store.
func NewProfileMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ProfileRepository {
	collection := db.Collection(profileCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "activation_code", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create profile indexes")
	}

	return &profileMongoRepository{db: db}
}

func (r *profileMongoRepository) InsertProfile(ctx context.Context, profile *model.Profile) error {
	_, err := r.db.Collection(profileCollection).InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrProfileAlreadyExists
		}
		return err
	}

	return nil
}

func (r *profileMongoRepository) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *profileMongoRepository) GetProfileByActivationCode(ctx context.Context, code string) (*model.Profile, error) {
	return r.findOne(ctx, bson.M{"activation_code": code})
}

func (r *profileMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Profile, error) {
	result := r.db.Collection(profileCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Err()
	}

	var profile model.Profile
	if err := result.Decode(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

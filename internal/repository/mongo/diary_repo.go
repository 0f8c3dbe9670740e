package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"runtracker/internal/domain"
	"runtracker/internal/repository"
)

const diaryCollectionName = "training_diary"

// mongoDiaryRepository implements repository.DiaryRepository
type mongoDiaryRepository struct {
	collection *mongo.Collection
}

// NewMongoDiaryRepository creates a new diary repository backed by MongoDB.
func NewMongoDiaryRepository(db *mongo.Database) repository.DiaryRepository {
	return &mongoDiaryRepository{
		collection: db.Collection(diaryCollectionName),
	}
}

// Create inserts a new diary entry.
func (r *mongoDiaryRepository) Create(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	if entry.UserID == "" || entry.Date.IsZero() {
		return "", errors.New("diary entry requires userId and date")
	}

	entry.ID = primitive.NewObjectID().Hex()
	entry.Date = domain.DateOf(entry.Date)
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	return entry.ID, nil
}

// GetByID retrieves a diary entry by its ID.
func (r *mongoDiaryRepository) GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUserAndDate retrieves the user's entry for a date.
func (r *mongoDiaryRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DiaryEntry, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "date": domain.DateOf(date)})
}

func (r *mongoDiaryRepository) findOne(ctx context.Context, filter bson.M) (*domain.DiaryEntry, error) {
	var entry domain.DiaryEntry
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByUserID retrieves all entries of a user, newest first.
func (r *mongoDiaryRepository) GetByUserID(ctx context.Context, userID string) ([]domain.DiaryEntry, error) {
	entries := []domain.DiaryEntry{}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update writes the editable fields of an entry.
func (r *mongoDiaryRepository) Update(ctx context.Context, entry *domain.DiaryEntry) error {
	if entry.ID == "" {
		return errors.New("diary entry ID is required for update")
	}

	entry.Date = domain.DateOf(entry.Date)
	entry.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"date":                entry.Date,
			"trainingId":          entry.TrainingID,
			"trainingInformation": entry.TrainingInformation,
			"trainingDistance":    entry.TrainingDistance,
			"trainingTime":        entry.TrainingTime,
			"averageSpeed":        entry.AverageSpeed,
			"notes":               entry.Notes,
			"updatedAt":           entry.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": entry.ID, "userId": entry.UserID}, updateDoc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an entry that belongs to userID.
func (r *mongoDiaryRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDiaryIndexes creates necessary indexes. Call during startup.
func EnsureDiaryIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One entry per user and day; also serves the newest-first listing.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

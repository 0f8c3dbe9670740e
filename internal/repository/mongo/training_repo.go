// internal/repository/mongo/training_repo.go
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

const trainingCollectionName = "trainings"

// mongoTrainingRepository implements repository.TrainingRepository
type mongoTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingRepository creates a new Training repository.
func NewMongoTrainingRepository(db *mongo.Database) repository.TrainingRepository {
	return &mongoTrainingRepository{
		collection: db.Collection(trainingCollectionName),
	}
}

// Create inserts a new training. The unique (trainingPlanId, date) index rejects a second training on the same day.
func (r *mongoTrainingRepository) Create(ctx context.Context, training *domain.Training) (string, error) {
	if training.TrainingPlanID == "" || training.MainTraining == "" || training.Date.IsZero() {
		return "", errors.New("training requires trainingPlanId, date, and mainTraining")
	}
	training.ID = primitive.NewObjectID().Hex()
	training.Date = domain.DateOf(training.Date)
	now := time.Now().UTC()
	training.CreatedAt = now
	training.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, training); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	return training.ID, nil
}

// GetByID retrieves a single training by its ID.
func (r *mongoTrainingRepository) GetByID(ctx context.Context, id string) (*domain.Training, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByPlanAndDate retrieves the training scheduled on date, if any.
func (r *mongoTrainingRepository) GetByPlanAndDate(ctx context.Context, planID string, date time.Time) (*domain.Training, error) {
	return r.findOne(ctx, bson.M{"trainingPlanId": planID, "date": domain.DateOf(date)})
}

func (r *mongoTrainingRepository) findOne(ctx context.Context, filter bson.M) (*domain.Training, error) {
	var training domain.Training
	err := r.collection.FindOne(ctx, filter).Decode(&training)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &training, nil
}

// GetByPlanBetween retrieves trainings of a plan with from <= date < to, ordered by date.
func (r *mongoTrainingRepository) GetByPlanBetween(ctx context.Context, planID string, from, to time.Time) ([]domain.Training, error) {
	trainings := []domain.Training{}
	filter := bson.M{
		"trainingPlanId": planID,
		"date":           bson.M{"$gte": from, "$lt": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &trainings); err != nil {
		return nil, err
	}
	return trainings, nil
}

// Update writes the editable fields. TrainingPlanID is never moved.
func (r *mongoTrainingRepository) Update(ctx context.Context, training *domain.Training) error {
	if training.ID == "" {
		return errors.New("training ID is required for update")
	}

	training.Date = domain.DateOf(training.Date)
	training.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"date":               training.Date,
			"mainTraining":       training.MainTraining,
			"additionalTraining": training.AdditionalTraining,
			"completed":          training.Completed,
			"updatedAt":          training.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": training.ID}, updateDoc)
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

// SetCompleted flips the completed flag of a training.
func (r *mongoTrainingRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	update := bson.M{"$set": bson.M{"completed": completed, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single training.
func (r *mongoTrainingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByPlanID removes every training of a plan.
func (r *mongoTrainingRepository) DeleteByPlanID(ctx context.Context, planID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"trainingPlanId": planID})
	return err
}

// EnsureTrainingIndexes creates necessary indexes. Call during startup.
func EnsureTrainingIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One training per plan and day; also serves the month range query.
			Keys:    bson.D{{Key: "trainingPlanId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

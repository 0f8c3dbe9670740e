// internal/repository/mongo/training_plan_repo.go
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

const trainingPlanCollectionName = "training_plans"

// mongoTrainingPlanRepository implements repository.TrainingPlanRepository
type mongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingPlanRepository creates a new TrainingPlan repository.
func NewMongoTrainingPlanRepository(db *mongo.Database) repository.TrainingPlanRepository {
	return &mongoTrainingPlanRepository{
		collection: db.Collection(trainingPlanCollectionName),
	}
}

// Create inserts a new training plan.
func (r *mongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (string, error) {
	if plan.OwnerID == "" || plan.Name == "" {
		return "", errors.New("plan requires ownerId and name")
	}
	plan.ID = primitive.NewObjectID().Hex()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		return "", err
	}
	return plan.ID, nil
}

// GetByID retrieves a single training plan by its ID.
func (r *mongoTrainingPlanRepository) GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetCurrent retrieves the owner's current plan.
func (r *mongoTrainingPlanRepository) GetCurrent(ctx context.Context, ownerID string) (*domain.TrainingPlan, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID, "currentPlan": true})
}

func (r *mongoTrainingPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByOwnerID retrieves all plans of an owner, latest start date first.
func (r *mongoTrainingPlanRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]domain.TrainingPlan, error) {
	plans := []domain.TrainingPlan{}
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update writes the editable fields of a plan. OwnerID and CreatedAt never change.
func (r *mongoTrainingPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan.ID == "" {
		return errors.New("training plan ID is required for update")
	}

	plan.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"name":        plan.Name,
			"description": plan.Description,
			"startDate":   plan.StartDate,
			"endDate":     plan.EndDate,
			"currentPlan": plan.CurrentPlan,
			"updatedAt":   plan.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetCurrent deactivates the owner's other plans first, then flags planID.
// The second update is filtered by owner too, so a foreign plan is never touched.
func (r *mongoTrainingPlanRepository) SetCurrent(ctx context.Context, ownerID, planID string) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": planID, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}

	now := time.Now().UTC()
	others := bson.M{
		"ownerId":     ownerID,
		"currentPlan": true,
		"_id":         bson.M{"$ne": planID},
	}
	if _, err := r.collection.UpdateMany(ctx, others, bson.M{"$set": bson.M{"currentPlan": false, "updatedAt": now}}); err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": planID, "ownerId": ownerID},
		bson.M{"$set": bson.M{"currentPlan": true, "updatedAt": now}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan that belongs to ownerID.
func (r *mongoTrainingPlanRepository) Delete(ctx context.Context, id, ownerID string) error {
	if id == "" || ownerID == "" {
		return errors.New("plan ID and owner ID are required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainingPlanIndexes creates necessary indexes. Call during startup.
func EnsureTrainingPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index(),
		},
		{
			// Finding the current plan of an owner
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "currentPlan", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

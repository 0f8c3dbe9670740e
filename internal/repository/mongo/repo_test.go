package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"runtracker/internal/domain"
	"runtracker/internal/repository"
)

func updated(n int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func countResponse(ns string, n int32) bson.D {
	if n == 0 {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: n}})
}

func TestTrainingPlanSetCurrent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("demotes siblings before promoting", func(mt *mtest.T) {
		repo := NewMongoTrainingPlanRepository(mt.DB)
		ns := mt.DB.Name() + "." + trainingPlanCollectionName
		mt.AddMockResponses(countResponse(ns, 1), updated(2), updated(1))

		require.NoError(mt, repo.SetCurrent(ctx, "owner-1", "plan-2"))

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 3)
		assert.Equal(mt, "aggregate", events[0].CommandName)
		assert.Equal(mt, "update", events[1].CommandName)
		assert.Equal(mt, "update", events[2].CommandName)

		demote := events[1].Command.Lookup("updates", "0")
		assert.True(mt, demote.Document().Lookup("multi").Boolean())
		assert.Equal(mt, "owner-1", demote.Document().Lookup("q", "ownerId").StringValue())
		assert.True(mt, demote.Document().Lookup("q", "currentPlan").Boolean())
		assert.Equal(mt, "plan-2", demote.Document().Lookup("q", "_id", "$ne").StringValue())
		assert.False(mt, demote.Document().Lookup("u", "$set", "currentPlan").Boolean())

		promote := events[2].Command.Lookup("updates", "0")
		assert.Equal(mt, "plan-2", promote.Document().Lookup("q", "_id").StringValue())
		assert.Equal(mt, "owner-1", promote.Document().Lookup("q", "ownerId").StringValue())
		assert.True(mt, promote.Document().Lookup("u", "$set", "currentPlan").Boolean())
	})

	mt.Run("foreign plan is never written", func(mt *mtest.T) {
		repo := NewMongoTrainingPlanRepository(mt.DB)
		ns := mt.DB.Name() + "." + trainingPlanCollectionName
		mt.AddMockResponses(countResponse(ns, 0))

		err := repo.SetCurrent(ctx, "owner-1", "someone-elses-plan")
		assert.ErrorIs(mt, err, repository.ErrNotFound)

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 1)
		assert.Equal(mt, "aggregate", events[0].CommandName)
	})

	mt.Run("plan removed between count and promote", func(mt *mtest.T) {
		repo := NewMongoTrainingPlanRepository(mt.DB)
		ns := mt.DB.Name() + "." + trainingPlanCollectionName
		mt.AddMockResponses(countResponse(ns, 1), updated(0), updated(0))

		err := repo.SetCurrent(ctx, "owner-1", "plan-2")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestCreateMapsDuplicateKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	duplicate := mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}
	day := domain.Date(2024, time.March, 12)

	mt.Run("user email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(duplicate))
		_, err := NewMongoUserRepository(mt.DB).Create(ctx, &domain.User{Email: "runner@example.com", PasswordHash: "hash"})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("training plan and date", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(duplicate))
		_, err := NewMongoTrainingRepository(mt.DB).Create(ctx, &domain.Training{TrainingPlanID: "plan-1", Date: day, MainTraining: "tempo"})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("diary user and date", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(duplicate))
		_, err := NewMongoDiaryRepository(mt.DB).Create(ctx, &domain.DiaryEntry{UserID: "user-1", Date: day})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("training moved onto a taken date", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(duplicate))
		err := NewMongoTrainingRepository(mt.DB).Update(ctx, &domain.Training{ID: "training-1", TrainingPlanID: "plan-1", Date: day, MainTraining: "tempo"})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("other write errors pass through", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 121, Message: "Document failed validation"}))
		_, err := NewMongoUserRepository(mt.DB).Create(ctx, &domain.User{Email: "runner@example.com", PasswordHash: "hash"})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrDuplicate)
	})
}

func TestFindOneMapsNoDocuments(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing plan", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+trainingPlanCollectionName, mtest.FirstBatch))
		_, err := NewMongoTrainingPlanRepository(mt.DB).GetByID(context.Background(), "missing")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("current plan", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+trainingPlanCollectionName, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "plan-1"},
			{Key: "ownerId", Value: "owner-1"},
			{Key: "name", Value: "Spring 10k"},
			{Key: "currentPlan", Value: true},
		}))
		plan, err := NewMongoTrainingPlanRepository(mt.DB).GetCurrent(context.Background(), "owner-1")
		require.NoError(mt, err)
		assert.Equal(mt, "plan-1", plan.ID)
		assert.True(mt, plan.CurrentPlan)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		assert.Equal(mt, "owner-1", filter.Lookup("ownerId").StringValue())
		assert.True(mt, filter.Lookup("currentPlan").Boolean())
	})
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates every collection's indexes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)
		EnsureIndexes(context.Background(), mt.DB)

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 4)
		unique := map[string]bool{}
		for _, evt := range events {
			require.Equal(mt, "createIndexes", evt.CommandName)
			collection := evt.Command.Lookup("createIndexes").StringValue()
			first := evt.Command.Lookup("indexes", "0").Document()
			u, ok := first.Lookup("unique").BooleanOK()
			unique[collection] = ok && u
		}
		assert.Equal(mt, map[string]bool{
			userCollectionName:         true,
			trainingPlanCollectionName: false,
			trainingCollectionName:     true,
			diaryCollectionName:        true,
		}, unique)
	})

	mt.Run("keeps going when one collection fails", func(mt *mtest.T) {
		failure := mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "not authorized"})
		mt.AddMockResponses(failure, mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		EnsureIndexes(context.Background(), mt.DB)
		assert.Len(mt, mt.GetAllStartedEvents(), 4)
	})
}

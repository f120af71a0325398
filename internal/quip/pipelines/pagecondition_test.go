package pipelines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var matchEverything = bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: true}}}}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortPopular, ParseSortMode("popular"))
	assert.Equal(t, SortLatest, ParseSortMode("latest"))
	assert.Equal(t, SortLatest, ParseSortMode(""))
	assert.Equal(t, SortLatest, ParseSortMode("garbage"))
}

func TestPageConditionFirstPage(t *testing.T) {
	// no cursor means no predicate, whatever the sort mode
	assert.Equal(t, matchEverything, NewPageCondition(SortLatest, nil, nil).MatchStage())

	score := 5
	assert.Equal(t, matchEverything, NewPageCondition(SortPopular, &score, nil).MatchStage())
}

func TestPageConditionLatest(t *testing.T) {
	lastID := primitive.NewObjectID()
	stage := NewPageCondition(SortLatest, nil, &lastID).MatchStage()

	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{
		{Key: "_id", Value: bson.D{{Key: "$lt", Value: lastID}}},
	}}}, stage)
}

func TestPageConditionLatestIgnoresScore(t *testing.T) {
	lastID := primitive.NewObjectID()
	score := 42

	assert.Equal(t,
		NewPageCondition(SortLatest, nil, &lastID).MatchStage(),
		NewPageCondition(SortLatest, &score, &lastID).MatchStage())
}

func TestPageConditionPopular(t *testing.T) {
	lastID := primitive.NewObjectID()
	score := 42
	stage := NewPageCondition(SortPopular, &score, &lastID).MatchStage()

	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{
		{Key: "$expr", Value: bson.D{
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$score", 42}}},
					bson.D{{Key: "$lt", Value: bson.A{"$_id", lastID}}},
				}}},
				bson.D{{Key: "$lt", Value: bson.A{"$score", 42}}},
			}},
		}},
	}}}, stage)
}

func TestPageConditionPopularWithoutScore(t *testing.T) {
	// documented no-op: the comparator can't be rebuilt without the score
	lastID := primitive.NewObjectID()
	stage := NewPageCondition(SortPopular, nil, &lastID).MatchStage()

	assert.Equal(t, matchEverything, stage)
}

func TestPageConditionIsDeterministic(t *testing.T) {
	lastID := primitive.NewObjectID()
	score := 7

	first := NewPageCondition(SortPopular, &score, &lastID)
	second := NewPageCondition(SortPopular, &score, &lastID)

	assert.Equal(t, first, second)
	assert.Equal(t, first.MatchStage(), second.MatchStage())
}

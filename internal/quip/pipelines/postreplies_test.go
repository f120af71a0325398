package pipelines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReplyThreadFeedFirstPage(t *testing.T) {
	parentID := primitive.NewObjectID()
	pipeline := ReplyThreadFeed(parentID, nil, nil)

	// no viewer, so no visibility stages between sort and page condition
	require.GreaterOrEqual(t, len(pipeline), 4)
	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{{Key: "replyTo", Value: parentID}}}}, pipeline[0])
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}, pipeline[1])
	assert.Equal(t, matchEverything, pipeline[2])
	assert.Equal(t, bson.D{{Key: "$limit", Value: PageSize}}, pipeline[3])
	assert.Equal(t, []bson.D(PostEnrichment(nil)), []bson.D(pipeline[4:]))
}

func TestReplyThreadFeedSecondPage(t *testing.T) {
	parentID := primitive.NewObjectID()
	lastReplyID := primitive.NewObjectID()
	pipeline := ReplyThreadFeed(parentID, nil, &lastReplyID)

	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{
		{Key: "_id", Value: bson.D{{Key: "$lt", Value: lastReplyID}}},
	}}}, pipeline[2])
}

func TestReplyThreadFeedVisibilityBeforePagination(t *testing.T) {
	parentID := primitive.NewObjectID()
	viewer := primitive.NewObjectID()
	lastReplyID := primitive.NewObjectID()
	pipeline := ReplyThreadFeed(parentID, &viewer, &lastReplyID)

	filters := VisibilityFilters(&viewer)
	require.NotEmpty(t, filters)

	// mute exclusions sit between the sort and the page condition so they
	// never count against the page cap
	assert.Equal(t, []bson.D(filters), []bson.D(pipeline[2:2+len(filters)]))
	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{
		{Key: "_id", Value: bson.D{{Key: "$lt", Value: lastReplyID}}},
	}}}, pipeline[2+len(filters)])
	assert.Equal(t, bson.D{{Key: "$limit", Value: PageSize}}, pipeline[3+len(filters)])
}

func TestVisibilityFiltersWithoutViewer(t *testing.T) {
	assert.Empty(t, VisibilityFilters(nil))
}

func TestReplyThreadFeedIsDeterministic(t *testing.T) {
	parentID := primitive.NewObjectID()
	viewer := primitive.NewObjectID()

	assert.Equal(t,
		ReplyThreadFeed(parentID, &viewer, nil),
		ReplyThreadFeed(parentID, &viewer, nil))
}

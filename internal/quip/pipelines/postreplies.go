package pipelines

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReplyThreadFeed builds the aggregation pipeline for one page of replies
// to parentID, newest first. Reply threads are not sortable by popularity.
func ReplyThreadFeed(parentID primitive.ObjectID, viewerID *primitive.ObjectID, lastReplyID *primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "replyTo", Value: parentID}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}

	// mute exclusions must land before the page condition so they never
	// count against the page cap
	pipeline = append(pipeline, VisibilityFilters(viewerID)...)

	pipeline = append(pipeline,
		NewPageCondition(SortLatest, nil, lastReplyID).MatchStage(),
		bson.D{{Key: "$limit", Value: PageSize}},
	)

	return append(pipeline, PostEnrichment(viewerID)...)
}

package pipelines

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HashtagFeed builds the aggregation pipeline for one page of posts tagged
// with hashtag. The tag must already be normalized by the caller. An empty
// tag just matches nothing. The sub-key order of the sort stage is what the
// page condition relies on and must not be swapped.
func HashtagFeed(hashtag string, viewerID *primitive.ObjectID, sort SortMode, lastScore *int, lastID *primitive.ObjectID) mongo.Pipeline {
	sortStage := bson.D{{Key: "createdAt", Value: -1}, {Key: "score", Value: -1}}

	if sort == SortPopular {
		sortStage = bson.D{{Key: "score", Value: -1}, {Key: "createdAt", Value: -1}}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "hashtags", Value: hashtag}}}},
		bson.D{{Key: "$sort", Value: sortStage}},
		NewPageCondition(sort, lastScore, lastID).MatchStage(),
		bson.D{{Key: "$limit", Value: PageSize}},
	}

	return append(pipeline, PostEnrichment(viewerID)...)
}

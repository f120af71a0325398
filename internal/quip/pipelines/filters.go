package pipelines

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// VisibilityFilters builds the stages that drop posts the viewer has muted.
// An absent viewer sees everything, so the sequence is empty.
func VisibilityFilters(viewerID *primitive.ObjectID) mongo.Pipeline {
	if viewerID == nil {
		return mongo.Pipeline{}
	}

	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "mutes"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "postId"},
			{Key: "as", Value: "mutedBy"},
			{Key: "pipeline", Value: mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.D{{Key: "userId", Value: *viewerID}}}},
			}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "mutedBy", Value: bson.D{{Key: "$size", Value: 0}}}}}},
		bson.D{{Key: "$unset", Value: "mutedBy"}},
	}
}

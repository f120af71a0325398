package pipelines

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostEnrichment builds the stages appended to every feed pipeline: the
// author projection, the favourite count and, when a viewer is known, the
// viewer-relative favourited flag. Without a viewer the enrichment is
// viewer-agnostic.
func PostEnrichment(viewerID *primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
			{Key: "pipeline", Value: mongo.Pipeline{
				bson.D{{Key: "$project", Value: bson.D{{Key: "login", Value: 1}}}},
			}},
		}}},
		bson.D{{Key: "$unwind", Value: "$author"}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "favourites"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "postId"},
			{Key: "as", Value: "favourites"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "favouriteCount", Value: bson.D{{Key: "$size", Value: "$favourites"}}},
		}}},
	}

	if viewerID != nil {
		pipeline = append(pipeline, bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "favourited", Value: bson.D{{Key: "$in", Value: bson.A{*viewerID, "$favourites.userId"}}}},
		}}})
	}

	return append(pipeline, bson.D{{Key: "$unset", Value: "favourites"}})
}

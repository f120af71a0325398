package mongostorage

import (
	"context"
	"fmt"
	"time"

	"github.com/santhoshjanan/quip-api-v2/internal/quip/pipelines"
	"github.com/santhoshjanan/quip-api-v2/internal/quip/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dbName = "quip"

type mongoStorage struct {
	posts      *mongo.Collection
	users      *mongo.Collection
	favourites *mongo.Collection
	mutes      *mongo.Collection
}

func NewMongoStorage(mongoUrl string) (storage.Storage, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoUrl))

	if err != nil {
		return nil, fmt.Errorf("can't connect to mongo - %w", err)
	}

	posts := client.Database(dbName).Collection("posts")
	posts.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "hashtags", Value: 1}}})
	posts.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "replyTo", Value: 1}}})
	posts.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "score", Value: -1}, {Key: "_id", Value: -1}}})

	users := client.Database(dbName).Collection("users")
	users.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "login", Value: 1}}})

	favourites := client.Database(dbName).Collection("favourites")
	favourites.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	mutes := client.Database(dbName).Collection("mutes")
	mutes.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &mongoStorage{
		posts:      posts,
		users:      users,
		favourites: favourites,
		mutes:      mutes,
	}, nil
}

func (s *mongoStorage) AddUser(ctx context.Context, user *storage.User) error {
	id, err := s.users.InsertOne(ctx, user)

	if err != nil {
		return fmt.Errorf("can't insert user - %w", err)
	}

	user.Id = id.InsertedID.(primitive.ObjectID).Hex()

	return nil
}

func (s *mongoStorage) GetUserByLogin(ctx context.Context, login string) (*storage.User, error) {
	var findResult storage.User
	err := s.users.FindOne(ctx, bson.M{"login": login}).Decode(&findResult)

	if err != nil {
		return nil, fmt.Errorf("can't find user with login %s - %w", login, storage.ErrNotFound)
	}

	return &findResult, nil
}

func (s *mongoStorage) GetUserById(ctx context.Context, idHex string) (*storage.User, error) {
	objId, err := primitive.ObjectIDFromHex(idHex)

	if err != nil {
		return nil, fmt.Errorf("bad user id %q: %w", idHex, storage.ErrInvalidArgument)
	}

	var findResult storage.User
	err = s.users.FindOne(ctx, bson.M{"_id": objId}).Decode(&findResult)

	if err != nil {
		return nil, fmt.Errorf("can't find user with id %s - %w", idHex, storage.ErrNotFound)
	}

	return &findResult, nil
}

func (s *mongoStorage) AddPost(ctx context.Context, post *storage.Post) error {
	id, err := s.posts.InsertOne(ctx, *post)

	if err != nil {
		return fmt.Errorf("can't insert post - %w", err)
	}

	objId := id.InsertedID.(primitive.ObjectID)
	post.Id = objId.Hex()

	if post.Time == "" {
		post.Time = objId.Timestamp().UTC().Format(time.RFC3339)
	}

	return nil
}

func (s *mongoStorage) GetPost(ctx context.Context, postId string, viewerId string) (*storage.Post, error) {
	objId, err := storage.ParsePostID(postId)

	if err != nil {
		return nil, err
	}

	viewer, err := optionalObjectID(viewerId)

	if err != nil {
		return nil, err
	}

	pipeline := append(mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: objId}}}},
	}, pipelines.PostEnrichment(viewer)...)

	cur, err := s.posts.Aggregate(ctx, pipeline)

	if err != nil {
		return nil, fmt.Errorf("can't run post query: %w", err)
	}

	posts := make([]storage.Post, 0)

	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("can't get data from cursor: %w", err)
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("no post with id %s - %w", postId, storage.ErrNotFound)
	}

	return &posts[0], nil
}

func (s *mongoStorage) GetHashtagPosts(ctx context.Context, hashtag string, viewerId string, sort pipelines.SortMode, lastScore *int, lastPostId string) ([]storage.Post, error) {
	viewer, err := optionalObjectID(viewerId)

	if err != nil {
		return nil, err
	}

	lastID, err := optionalObjectID(lastPostId)

	if err != nil {
		return nil, err
	}

	return s.aggregatePosts(ctx, pipelines.HashtagFeed(hashtag, viewer, sort, lastScore, lastID))
}

func (s *mongoStorage) GetPostReplies(ctx context.Context, postId string, viewerId string, lastReplyId string) ([]storage.Post, error) {
	parentID, err := storage.ParsePostID(postId)

	if err != nil {
		return nil, err
	}

	viewer, err := optionalObjectID(viewerId)

	if err != nil {
		return nil, err
	}

	lastID, err := optionalObjectID(lastReplyId)

	if err != nil {
		return nil, err
	}

	return s.aggregatePosts(ctx, pipelines.ReplyThreadFeed(parentID, viewer, lastID))
}

func (s *mongoStorage) aggregatePosts(ctx context.Context, pipeline mongo.Pipeline) ([]storage.Post, error) {
	cur, err := s.posts.Aggregate(ctx, pipeline)

	if err != nil {
		return nil, fmt.Errorf("can't run feed query: %w", err)
	}

	posts := make([]storage.Post, 0)

	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("can't get data from cursor: %w", err)
	}

	return posts, nil
}

func (s *mongoStorage) FavouritePost(ctx context.Context, postId string, userId string) error {
	postObjId, userObjId, err := interactionIDs(postId, userId)

	if err != nil {
		return err
	}

	result, err := s.favourites.UpdateOne(ctx,
		bson.M{"postId": postObjId, "userId": userObjId},
		bson.M{"$setOnInsert": bson.M{"postId": postObjId, "userId": userObjId}},
		options.Update().SetUpsert(true))

	if err != nil {
		return fmt.Errorf("can't add favourite: %w", err)
	}

	if result.UpsertedCount == 1 {
		// a favourite bumps the popularity score
		_, err = s.posts.UpdateOne(ctx, bson.M{"_id": postObjId}, bson.M{"$inc": bson.M{"score": 1}})
	}

	return err
}

func (s *mongoStorage) UnfavouritePost(ctx context.Context, postId string, userId string) error {
	postObjId, userObjId, err := interactionIDs(postId, userId)

	if err != nil {
		return err
	}

	result, err := s.favourites.DeleteOne(ctx, bson.M{"postId": postObjId, "userId": userObjId})

	if err != nil {
		return fmt.Errorf("can't remove favourite: %w", err)
	}

	if result.DeletedCount == 1 {
		_, err = s.posts.UpdateOne(ctx, bson.M{"_id": postObjId}, bson.M{"$inc": bson.M{"score": -1}})
	}

	return err
}

func (s *mongoStorage) MutePost(ctx context.Context, postId string, userId string) error {
	postObjId, userObjId, err := interactionIDs(postId, userId)

	if err != nil {
		return err
	}

	_, err = s.mutes.UpdateOne(ctx,
		bson.M{"postId": postObjId, "userId": userObjId},
		bson.M{"$setOnInsert": bson.M{"postId": postObjId, "userId": userObjId}},
		options.Update().SetUpsert(true))

	if err != nil {
		return fmt.Errorf("can't add mute: %w", err)
	}

	return nil
}

func (s *mongoStorage) UnmutePost(ctx context.Context, postId string, userId string) error {
	postObjId, userObjId, err := interactionIDs(postId, userId)

	if err != nil {
		return err
	}

	_, err = s.mutes.DeleteOne(ctx, bson.M{"postId": postObjId, "userId": userObjId})

	if err != nil {
		return fmt.Errorf("can't remove mute: %w", err)
	}

	return nil
}

func interactionIDs(postId string, userId string) (primitive.ObjectID, primitive.ObjectID, error) {
	postObjId, err := storage.ParsePostID(postId)

	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}

	userObjId, err := primitive.ObjectIDFromHex(userId)

	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("bad user id %q: %w", userId, storage.ErrInvalidArgument)
	}

	return postObjId, userObjId, nil
}

func optionalObjectID(idHex string) (*primitive.ObjectID, error) {
	if idHex == "" {
		return nil, nil
	}

	objId, err := storage.ParsePostID(idHex)

	if err != nil {
		return nil, err
	}

	return &objId, nil
}

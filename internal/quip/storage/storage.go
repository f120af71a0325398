package storage

import (
	"context"
	"errors"

	"github.com/santhoshjanan/quip-api-v2/internal/quip/pipelines"
)

// ErrInvalidArgument marks malformed identifiers and cursor values coming
// from the caller. Handlers map it to a 400 response.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotFound is returned when a post or user does not exist.
var ErrNotFound = errors.New("not found")

type Storage interface {
	AddUser(context.Context, *User) error
	GetUserByLogin(context.Context, string) (*User, error)
	GetUserById(context.Context, string) (*User, error)

	AddPost(context.Context, *Post) error
	GetPost(ctx context.Context, postId string, viewerId string) (*Post, error)

	// GetHashtagPosts returns one page of posts tagged with hashtag.
	// lastPostId and lastScore carry the cursor from the previous page's
	// final row; both empty/nil means the first page.
	GetHashtagPosts(ctx context.Context, hashtag string, viewerId string, sort pipelines.SortMode, lastScore *int, lastPostId string) ([]Post, error)

	// GetPostReplies returns one page of replies to postId, newest first,
	// with the viewer's muted posts filtered out.
	GetPostReplies(ctx context.Context, postId string, viewerId string, lastReplyId string) ([]Post, error)

	FavouritePost(ctx context.Context, postId string, userId string) error
	UnfavouritePost(ctx context.Context, postId string, userId string) error
	MutePost(ctx context.Context, postId string, userId string) error
	UnmutePost(ctx context.Context, postId string, userId string) error
}

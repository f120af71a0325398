package mapstorage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhoshjanan/quip-api-v2/internal/quip/pipelines"
	"github.com/santhoshjanan/quip-api-v2/internal/quip/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mapStorage keeps everything in memory with the same comparator and
// keyset-pagination semantics as the mongo pipelines. Ids are real
// ObjectIDs so identifier order stays creation order, same as the store.
type mapStorage struct {
	mu         sync.RWMutex
	users      []storage.User
	posts      []storage.Post
	favourites map[string]map[string]bool
	mutes      map[string]map[string]bool
}

func NewMapStorage() *mapStorage {
	return &mapStorage{
		users:      make([]storage.User, 0),
		posts:      make([]storage.Post, 0),
		favourites: make(map[string]map[string]bool),
		mutes:      make(map[string]map[string]bool),
	}
}

func (m *mapStorage) AddUser(_ context.Context, newUser *storage.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Login == newUser.Login {
			return errors.New("user with this login already exists")
		}
	}

	newUser.Id = primitive.NewObjectID().Hex()
	m.users = append(m.users, *newUser)

	return nil
}

func (m *mapStorage) GetUserByLogin(_ context.Context, targetLogin string) (*storage.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Login == targetLogin {
			found := user
			return &found, nil
		}
	}

	return nil, fmt.Errorf("no user with login %s - %w", targetLogin, storage.ErrNotFound)
}

func (m *mapStorage) GetUserById(_ context.Context, targetId string) (*storage.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Id == targetId {
			found := user
			return &found, nil
		}
	}

	return nil, fmt.Errorf("no user with id %s - %w", targetId, storage.ErrNotFound)
}

func (m *mapStorage) AddPost(_ context.Context, post *storage.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	post.Id = primitive.NewObjectID().Hex()

	if post.Hashtags == nil {
		post.Hashtags = make([]string, 0)
	}

	m.posts = append(m.posts, *post)

	return nil
}

func (m *mapStorage) GetPost(_ context.Context, postId string, viewerId string) (*storage.Post, error) {
	if _, err := storage.ParsePostID(postId); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.posts {
		if p.Id == postId {
			found := m.enrich(p, viewerId)
			return &found, nil
		}
	}

	return nil, fmt.Errorf("no post with id %s - %w", postId, storage.ErrNotFound)
}

func (m *mapStorage) GetHashtagPosts(_ context.Context, hashtag string, viewerId string, sortMode pipelines.SortMode, lastScore *int, lastPostId string) ([]storage.Post, error) {
	if lastPostId != "" {
		if _, err := storage.ParsePostID(lastPostId); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]storage.Post, 0)

	for _, p := range m.posts {
		if containsTag(p.Hashtags, hashtag) {
			matched = append(matched, p)
		}
	}

	sortPosts(matched, sortMode)
	matched = applyPageCondition(matched, sortMode, lastScore, lastPostId)

	return m.enrichPage(capPage(matched), viewerId), nil
}

func (m *mapStorage) GetPostReplies(_ context.Context, postId string, viewerId string, lastReplyId string) ([]storage.Post, error) {
	if _, err := storage.ParsePostID(postId); err != nil {
		return nil, err
	}

	if lastReplyId != "" {
		if _, err := storage.ParsePostID(lastReplyId); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]storage.Post, 0)

	for _, p := range m.posts {
		if p.ReplyTo == postId && !m.muted(p.Id, viewerId) {
			matched = append(matched, p)
		}
	}

	sortPosts(matched, pipelines.SortLatest)
	matched = applyPageCondition(matched, pipelines.SortLatest, nil, lastReplyId)

	return m.enrichPage(capPage(matched), viewerId), nil
}

func (m *mapStorage) FavouritePost(_ context.Context, postId string, userId string) error {
	if _, err := storage.ParsePostID(postId); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.favourites[postId] == nil {
		m.favourites[postId] = make(map[string]bool)
	}

	if m.favourites[postId][userId] {
		return nil
	}

	m.favourites[postId][userId] = true
	m.bumpScore(postId, 1)

	return nil
}

func (m *mapStorage) UnfavouritePost(_ context.Context, postId string, userId string) error {
	if _, err := storage.ParsePostID(postId); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.favourites[postId][userId] {
		return nil
	}

	delete(m.favourites[postId], userId)
	m.bumpScore(postId, -1)

	return nil
}

func (m *mapStorage) MutePost(_ context.Context, postId string, userId string) error {
	if _, err := storage.ParsePostID(postId); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mutes[postId] == nil {
		m.mutes[postId] = make(map[string]bool)
	}

	m.mutes[postId][userId] = true

	return nil
}

func (m *mapStorage) UnmutePost(_ context.Context, postId string, userId string) error {
	if _, err := storage.ParsePostID(postId); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.mutes[postId], userId)

	return nil
}

func (m *mapStorage) bumpScore(postId string, delta int) {
	for i := range m.posts {
		if m.posts[i].Id == postId {
			m.posts[i].Score += delta
			return
		}
	}
}

func (m *mapStorage) muted(postId string, viewerId string) bool {
	return viewerId != "" && m.mutes[postId][viewerId]
}

func (m *mapStorage) enrich(p storage.Post, viewerId string) storage.Post {
	for _, user := range m.users {
		if user.Id == p.AuthorId {
			p.AuthorLogin = user.Login
			break
		}
	}

	p.FavouriteCount = len(m.favourites[p.Id])
	p.Favourited = viewerId != "" && m.favourites[p.Id][viewerId]

	return p
}

func (m *mapStorage) enrichPage(posts []storage.Post, viewerId string) []storage.Post {
	enriched := make([]storage.Post, 0, len(posts))

	for _, p := range posts {
		enriched = append(enriched, m.enrich(p, viewerId))
	}

	return enriched
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}

	return false
}

// sortPosts orders posts the way the feed pipelines sort them. Ids are
// hex-encoded ObjectIDs of equal length, so comparing the strings compares
// the identifiers, and identifier order is creation order.
func sortPosts(posts []storage.Post, sortMode pipelines.SortMode) {
	sort.Slice(posts, func(i, j int) bool {
		if sortMode == pipelines.SortPopular && posts[i].Score != posts[j].Score {
			return posts[i].Score > posts[j].Score
		}

		if posts[i].Id != posts[j].Id {
			return posts[i].Id > posts[j].Id
		}

		return posts[i].Score > posts[j].Score
	})
}

// applyPageCondition mirrors pipelines.NewPageCondition over sorted
// in-memory rows.
func applyPageCondition(posts []storage.Post, sortMode pipelines.SortMode, lastScore *int, lastPostId string) []storage.Post {
	if lastPostId == "" {
		return posts
	}

	if sortMode == pipelines.SortPopular && lastScore == nil {
		// missing score means the comparator can't be rebuilt; match
		// everything, same as the pipeline's page condition
		return posts
	}

	filtered := make([]storage.Post, 0, len(posts))

	for _, p := range posts {
		switch {
		case sortMode == pipelines.SortLatest && p.Id < lastPostId:
			filtered = append(filtered, p)
		case sortMode == pipelines.SortPopular && (p.Score < *lastScore || (p.Score == *lastScore && p.Id < lastPostId)):
			filtered = append(filtered, p)
		}
	}

	return filtered
}

func capPage(posts []storage.Post) []storage.Post {
	if len(posts) > pipelines.PageSize {
		return posts[:pipelines.PageSize]
	}

	return posts
}

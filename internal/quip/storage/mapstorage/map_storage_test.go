package mapstorage

import (
	"context"
	"fmt"
	"testing"

	"github.com/santhoshjanan/quip-api-v2/internal/quip/pipelines"
	"github.com/santhoshjanan/quip-api-v2/internal/quip/storage"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MapStorageSuite struct {
	suite.Suite

	s      *mapStorage
	author storage.User
}

var ctx = context.Background()

func (s *MapStorageSuite) SetupTest() {
	s.s = NewMapStorage()
	s.author = storage.User{Login: "alice"}
	s.Require().NoError(s.s.AddUser(ctx, &s.author))
}

func (s *MapStorageSuite) addTagged(score int) storage.Post {
	post := storage.Post{
		Text:     "post #launch",
		AuthorId: s.author.Id,
		Hashtags: []string{"launch"},
		Score:    score,
	}
	s.Require().NoError(s.s.AddPost(ctx, &post))

	return post
}

func (s *MapStorageSuite) addReply(parentId string) storage.Post {
	post := storage.Post{
		Text:     "a reply",
		AuthorId: s.author.Id,
		ReplyTo:  parentId,
	}
	s.Require().NoError(s.s.AddPost(ctx, &post))

	return post
}

func (s *MapStorageSuite) TestHashtagPagingLatest() {
	for i := 0; i < 45; i++ {
		s.addTagged(0)
	}

	seen := make(map[string]bool)
	var lastPostId string
	var pages [][]storage.Post

	for {
		page, err := s.s.GetHashtagPosts(ctx, "launch", "", pipelines.SortLatest, nil, lastPostId)
		s.Require().NoError(err)

		if len(page) == 0 {
			break
		}

		for _, p := range page {
			s.False(seen[p.Id], "post %s served twice", p.Id)
			seen[p.Id] = true
		}

		pages = append(pages, page)

		if len(page) < pipelines.PageSize {
			break
		}

		lastPostId = page[len(page)-1].Id
	}

	s.Require().Len(pages, 3)
	s.Len(pages[0], 20)
	s.Len(pages[1], 20)
	s.Len(pages[2], 5)
	s.Len(seen, 45)

	// concatenated pages must be strictly newest-first
	previous := ""

	for _, page := range pages {
		for _, p := range page {
			if previous != "" {
				s.Less(p.Id, previous)
			}

			previous = p.Id
		}
	}
}

func (s *MapStorageSuite) TestHashtagPagingPopularTies() {
	// three posts share score 5; the cursor sitting on the middle one must
	// continue with the older same-score post, then the lower scores
	low := s.addTagged(1)
	tiedOld := s.addTagged(5)
	tiedMid := s.addTagged(5)
	tiedNew := s.addTagged(5)
	top := s.addTagged(9)

	firstPage, err := s.s.GetHashtagPosts(ctx, "launch", "", pipelines.SortPopular, nil, "")
	s.Require().NoError(err)

	ids := postIds(firstPage)
	s.Equal([]string{top.Id, tiedNew.Id, tiedMid.Id, tiedOld.Id, low.Id}, ids)

	score := 5
	rest, err := s.s.GetHashtagPosts(ctx, "launch", "", pipelines.SortPopular, &score, tiedMid.Id)
	s.Require().NoError(err)

	s.Equal([]string{tiedOld.Id, low.Id}, postIds(rest))
}

func (s *MapStorageSuite) TestPopularCursorWithoutScoreMatchesEverything() {
	first := s.addTagged(3)
	second := s.addTagged(1)

	page, err := s.s.GetHashtagPosts(ctx, "launch", "", pipelines.SortPopular, nil, second.Id)
	s.Require().NoError(err)

	// documented no-op: without the score the cursor is ignored
	s.Equal([]string{first.Id, second.Id}, postIds(page))
}

func (s *MapStorageSuite) TestRepliesMutedBeforePageCap() {
	parent := s.addTagged(0)

	var replies []storage.Post

	for i := 0; i < 25; i++ {
		replies = append(replies, s.addReply(parent.Id))
	}

	viewer := storage.User{Login: "bob"}
	s.Require().NoError(s.s.AddUser(ctx, &viewer))

	for _, muted := range replies[22:] {
		s.Require().NoError(s.s.MutePost(ctx, muted.Id, viewer.Id))
	}

	// 25 replies, the 3 newest muted: the first page must still hold a
	// full 20 visible rows, leaving 2 for the second page
	page, err := s.s.GetPostReplies(ctx, parent.Id, viewer.Id, "")
	s.Require().NoError(err)
	s.Require().Len(page, 20)

	for _, p := range page {
		s.NotContains(postIds(replies[22:]), p.Id)
	}

	rest, err := s.s.GetPostReplies(ctx, parent.Id, viewer.Id, page[len(page)-1].Id)
	s.Require().NoError(err)
	s.Len(rest, 2)

	// anonymous viewers see everything
	page, err = s.s.GetPostReplies(ctx, parent.Id, "", "")
	s.Require().NoError(err)
	s.Equal(replies[24].Id, page[0].Id)
}

func (s *MapStorageSuite) TestInvalidCursorFailsFast() {
	_, err := s.s.GetHashtagPosts(ctx, "launch", "", pipelines.SortLatest, nil, "not-an-id")
	s.Require().ErrorIs(err, storage.ErrInvalidArgument)

	_, err = s.s.GetPostReplies(ctx, "not-an-id", "", "")
	s.Require().ErrorIs(err, storage.ErrInvalidArgument)
}

func (s *MapStorageSuite) TestFavouriteEnrichmentAndScore() {
	post := s.addTagged(0)

	viewer := storage.User{Login: "bob"}
	s.Require().NoError(s.s.AddUser(ctx, &viewer))
	s.Require().NoError(s.s.FavouritePost(ctx, post.Id, viewer.Id))
	// favouriting twice must not double-count
	s.Require().NoError(s.s.FavouritePost(ctx, post.Id, viewer.Id))

	got, err := s.s.GetPost(ctx, post.Id, viewer.Id)
	s.Require().NoError(err)
	s.Equal(1, got.FavouriteCount)
	s.Equal(1, got.Score)
	s.True(got.Favourited)
	s.Equal("alice", got.AuthorLogin)

	anonymous, err := s.s.GetPost(ctx, post.Id, "")
	s.Require().NoError(err)
	s.False(anonymous.Favourited)

	s.Require().NoError(s.s.UnfavouritePost(ctx, post.Id, viewer.Id))

	got, err = s.s.GetPost(ctx, post.Id, viewer.Id)
	s.Require().NoError(err)
	s.Equal(0, got.FavouriteCount)
	s.Equal(0, got.Score)
	s.False(got.Favourited)
}

func postIds(posts []storage.Post) []string {
	ids := make([]string, 0, len(posts))

	for _, p := range posts {
		ids = append(ids, p.Id)
	}

	return ids
}

func TestMapStorageSuite(t *testing.T) {
	suite.Run(t, new(MapStorageSuite))
}

func TestObjectIDOrderIsInsertionOrder(t *testing.T) {
	// the whole keyset scheme leans on ids being monotone over time
	m := NewMapStorage()
	previous := ""

	for i := 0; i < 100; i++ {
		post := storage.Post{Text: fmt.Sprintf("post %d", i), AuthorId: "x"}
		require.NoError(t, m.AddPost(ctx, &post))
		require.Greater(t, post.Id, previous)
		previous = post.Id
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/santhoshjanan/quip-api-v2/internal/quip/pipelines"
	"github.com/santhoshjanan/quip-api-v2/internal/quip/storage"
	"github.com/santhoshjanan/quip-api-v2/internal/quip/utils"

	"github.com/gorilla/mux"
)

var errMissingScore = errors.New("missing lastScore")

// GetHashtagFeed serves one page of posts for a hashtag, sorted by
// "latest" (default) or "popular". The page cursor comes back from the
// client as lastPostId, plus lastScore when sorting by popularity.
func (h *Handler) GetHashtagFeed(w http.ResponseWriter, req *http.Request) {
	l := utils.NewErrorLogger("GetHashtagFeed")
	hashtag := strings.ToLower(strings.TrimPrefix(mux.Vars(req)["hashtag"], "#"))
	sortMode := pipelines.ParseSortMode(req.FormValue("sortBy"))
	lastPostId := req.FormValue("lastPostId")

	var lastScore *int

	if rawScore := req.FormValue("lastScore"); rawScore != "" {
		score, err := strconv.Atoi(rawScore)

		if l.CheckError(err, w, "lastScore must be a number", http.StatusBadRequest) != nil {
			return
		}

		lastScore = &score
	}

	// a popularity cursor without the score can't rebuild the comparator,
	// so reject it here instead of silently serving page one again
	if sortMode == pipelines.SortPopular && lastPostId != "" && lastScore == nil {
		l.CheckError(errMissingScore, w, "lastScore is required with lastPostId when sorting by popular", http.StatusBadRequest)
		return
	}

	posts, err := (*h.s).GetHashtagPosts(req.Context(), hashtag, h.viewerId(req), sortMode, lastScore, lastPostId)

	if l.CheckError(err, w, "can't get posts", statusForStorageError(err)) != nil {
		return
	}

	h.writeFeedPage(w, posts, sortMode)
}

// GetPostReplies serves one page of replies to a post, newest first, with
// the viewer's muted posts left out. The cursor is lastReplyId.
func (h *Handler) GetPostReplies(w http.ResponseWriter, req *http.Request) {
	l := utils.NewErrorLogger("GetPostReplies")
	postId := mux.Vars(req)["postId"]
	lastReplyId := req.FormValue("lastReplyId")

	posts, err := (*h.s).GetPostReplies(req.Context(), postId, h.viewerId(req), lastReplyId)

	if l.CheckError(err, w, "can't get replies", statusForStorageError(err)) != nil {
		return
	}

	h.writeFeedPage(w, posts, pipelines.SortLatest)
}

// writeFeedPage responds with the page and, when the page is full, the
// cursor for the next one built from the final row.
func (h *Handler) writeFeedPage(w http.ResponseWriter, posts []storage.Post, sortMode pipelines.SortMode) {
	mapForResponse := map[string]interface{}{"posts": posts}

	if len(posts) == pipelines.PageSize {
		last := posts[len(posts)-1]
		nextPage := map[string]interface{}{"lastPostId": last.Id}

		if sortMode == pipelines.SortPopular {
			nextPage["lastScore"] = last.Score
		}

		mapForResponse["nextPage"] = nextPage
	}

	resp, _ := json.Marshal(mapForResponse)
	utils.WriteJsonToResponse(w, http.StatusOK, resp)
}

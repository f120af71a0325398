package quip

import (
	"net/http"

	"github.com/santhoshjanan/quip-api-v2/internal/quip/handler"
	"github.com/santhoshjanan/quip-api-v2/internal/quip/storage"

	"github.com/gorilla/mux"
)

func NewRouter(s *storage.Storage, jwtSecret []byte) *mux.Router {
	r := mux.NewRouter()
	h := handler.NewHandler(s, jwtSecret)

	r.HandleFunc("/api/v1/register", h.RegisterNewUser).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/posts", h.AddPost).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/posts/{postId}", h.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/posts/{postId}/replies", h.GetPostReplies).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/posts/{postId}/favourite", h.FavouritePost).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/posts/{postId}/unfavourite", h.UnfavouritePost).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/posts/{postId}/mute", h.MutePost).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/posts/{postId}/unmute", h.UnmutePost).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/hashtag/{hashtag}", h.GetHashtagFeed).Methods(http.MethodGet)

	return r
}

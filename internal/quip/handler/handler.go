package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/santhoshjanan/quip-api-v2/internal/quip/storage"
	"github.com/santhoshjanan/quip-api-v2/internal/quip/utils"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	s        *storage.Storage
	secret   []byte
	validate *validator.Validate
}

func NewHandler(s *storage.Storage, jwtSecret []byte) *Handler {
	validate := validator.New()
	validate.RegisterValidation("login", utils.ValidateLogin)

	return &Handler{s: s, secret: jwtSecret, validate: validate}
}

// viewerId pulls the requesting user's id out of the bearer token. An
// absent or invalid token means an anonymous viewer, not an error; the
// endpoints that need authentication check for the empty result.
func (h *Handler) viewerId(req *http.Request) string {
	auth := req.Header.Get("Authorization")

	if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return ""
	}

	tokenString := strings.TrimSpace(auth[len("bearer "):])
	token, err := jwt.ParseWithClaims(tokenString, &jwt.StandardClaims{}, func(*jwt.Token) (interface{}, error) {
		return h.secret, nil
	})

	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(*jwt.StandardClaims)

	if !ok {
		return ""
	}

	return claims.Subject
}

func (h *Handler) RegisterNewUser(w http.ResponseWriter, req *http.Request) {
	reqBody, err := io.ReadAll(req.Body)

	if err != nil {
		log.Print("RegisterNewUser: can't read body")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "can't read body")
		return
	}

	userCredentials, err := storage.GetCredentials(reqBody)

	if err != nil {
		log.Print("RegisterNewUser: can't parse body")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "bad request body")
		return
	}

	if err := h.validate.Struct(userCredentials); err != nil {
		log.Print("RegisterNewUser: bad credentials format")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "wrong login or password format")
		return
	}

	pwdHash, _ := bcrypt.GenerateFromPassword([]byte(userCredentials.Password), 10)
	newUser := storage.User{
		Login:        userCredentials.Login,
		PasswordHash: pwdHash,
	}

	if err := (*h.s).AddUser(req.Context(), &newUser); err != nil {
		log.Print("RegisterNewUser: can't add user to storage")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "login already taken")
		return
	}

	resp, _ := json.Marshal(map[string]string{"id": newUser.Id})
	utils.WriteJsonToResponse(w, http.StatusOK, resp)
}

func (h *Handler) Login(w http.ResponseWriter, req *http.Request) {
	reqBody, err := io.ReadAll(req.Body)

	if err != nil {
		log.Print("Login: can't read body")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "can't read body")
		return
	}

	userCredentials, err := storage.GetCredentials(reqBody)

	if err != nil {
		log.Print("Login: can't parse body")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "bad request body")
		return
	}

	user, err := (*h.s).GetUserByLogin(req.Context(), userCredentials.Login)

	if err != nil {
		log.Print("Login: can't find user by login")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "no user with this login")
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(userCredentials.Password)); err != nil {
		log.Print("Login: wrong password")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "wrong password")
		return
	}

	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   user.Id,
		Issuer:    user.Login,
		ExpiresAt: time.Now().Add(time.Hour * 1).Unix(),
	})

	token, err := claims.SignedString(h.secret)

	if err != nil {
		log.Print("Login: can't sign token")
		utils.WriteErrorToResponse(w, http.StatusInternalServerError, "can't issue token")
		return
	}

	resp, _ := json.Marshal(map[string]string{"token": token})
	utils.WriteJsonToResponse(w, http.StatusOK, resp)
}

func (h *Handler) AddPost(w http.ResponseWriter, req *http.Request) {
	viewer := h.viewerId(req)

	if viewer == "" {
		log.Print("AddPost: no valid token")
		utils.WriteErrorToResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	reqBody, err := io.ReadAll(req.Body)

	if err != nil {
		log.Print("AddPost: can't read body")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "can't read body")
		return
	}

	var post storage.Post

	if json.Unmarshal(reqBody, &post) != nil {
		log.Print("AddPost: can't parse body")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "wrong post format")
		return
	}

	if post.Text == "" {
		log.Print("AddPost: empty text")
		utils.WriteErrorToResponse(w, http.StatusBadRequest, "post text is required")
		return
	}

	if post.ReplyTo != "" {
		if _, err := (*h.s).GetPost(req.Context(), post.ReplyTo, viewer); err != nil {
			log.Print("AddPost: bad replyTo")
			utils.WriteErrorToResponse(w, statusForStorageError(err), "no post to reply to")
			return
		}
	}

	post.AuthorId = viewer
	post.Hashtags = storage.ExtractHashtags(post.Text)
	post.Score = 0
	post.Time = time.Now().UTC().Format(time.RFC3339)

	if err := (*h.s).AddPost(req.Context(), &post); err != nil {
		log.Print("AddPost: can't add post to storage")
		utils.WriteErrorToResponse(w, http.StatusInternalServerError, "can't save post")
		return
	}

	resp, _ := json.Marshal(post)
	utils.WriteJsonToResponse(w, http.StatusOK, resp)
}

func (h *Handler) GetPost(w http.ResponseWriter, req *http.Request) {
	postId := mux.Vars(req)["postId"]
	post, err := (*h.s).GetPost(req.Context(), postId, h.viewerId(req))

	if err != nil {
		log.Print("GetPost: can't get post")
		utils.WriteErrorToResponse(w, statusForStorageError(err), "post not found")
		return
	}

	resp, _ := json.Marshal(post)
	utils.WriteJsonToResponse(w, http.StatusOK, resp)
}

func (h *Handler) FavouritePost(w http.ResponseWriter, req *http.Request) {
	h.interact(w, req, "FavouritePost", (*h.s).FavouritePost)
}

func (h *Handler) UnfavouritePost(w http.ResponseWriter, req *http.Request) {
	h.interact(w, req, "UnfavouritePost", (*h.s).UnfavouritePost)
}

func (h *Handler) MutePost(w http.ResponseWriter, req *http.Request) {
	h.interact(w, req, "MutePost", (*h.s).MutePost)
}

func (h *Handler) UnmutePost(w http.ResponseWriter, req *http.Request) {
	h.interact(w, req, "UnmutePost", (*h.s).UnmutePost)
}

func (h *Handler) interact(w http.ResponseWriter, req *http.Request, name string, op func(ctx context.Context, postId string, userId string) error) {
	viewer := h.viewerId(req)

	if viewer == "" {
		log.Print(name + ": no valid token")
		utils.WriteErrorToResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	postId := mux.Vars(req)["postId"]

	if err := op(req.Context(), postId, viewer); err != nil {
		log.Print(name + ": storage op failed")
		utils.WriteErrorToResponse(w, statusForStorageError(err), "can't update post")
		return
	}

	resp, _ := json.Marshal(map[string]string{"status": "ok"})
	utils.WriteJsonToResponse(w, http.StatusOK, resp)
}

func statusForStorageError(err error) int {
	switch {
	case errors.Is(err, storage.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

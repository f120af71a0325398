package quip

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/santhoshjanan/quip-api-v2/internal/quip/storage"
	"github.com/santhoshjanan/quip-api-v2/internal/quip/storage/mongostorage"

	"github.com/gorilla/mux"
)

type QuipServer struct {
	r       *mux.Router
	storage *storage.Storage
}

func NewQuipServer(mongoUrl string, jwtSecret []byte) *QuipServer {
	s, err := mongostorage.NewMongoStorage(mongoUrl)

	if err != nil {
		panic(fmt.Errorf("can't create mongo storage - %w", err))
	}

	return &QuipServer{r: NewRouter(&s, jwtSecret), storage: &s}
}

func (srv *QuipServer) StartQuipServer(port int) {
	server := &http.Server{
		Handler:      srv.r,
		Addr:         "0.0.0.0:" + strconv.Itoa(port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	server.ListenAndServe()
}

package main

import (
	"os"
	"strconv"

	"github.com/santhoshjanan/quip-api-v2/internal/quip"
)

func main() {
	port, err := strconv.Atoi(os.Getenv("PORT"))

	if err != nil {
		port = 3072
	}

	srv := quip.NewQuipServer(os.Getenv("MONGO_URL"), []byte(os.Getenv("JWT_SECRET")))
	srv.StartQuipServer(port)
}

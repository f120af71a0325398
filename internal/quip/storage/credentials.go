package storage

import "encoding/json"

type UserCredentials struct {
	Login    string `json:"login" validate:"required,login"`
	Password string `json:"password" validate:"required,min=8"`
}

func GetCredentials(reqBody []byte) (*UserCredentials, error) {
	var userCredentials UserCredentials

	return &userCredentials, json.Unmarshal(reqBody, &userCredentials)
}

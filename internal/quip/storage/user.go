package storage

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Login string
	// Hex value of _id in mongo
	Id           string
	PasswordHash []byte
}

type userDbTransferObject struct {
	Id           primitive.ObjectID `bson:"_id,omitempty"`
	Login        string             `bson:"login"`
	PasswordHash []byte             `bson:"passwordHash"`
}

func (u User) MarshalBSON() ([]byte, error) {
	return bson.Marshal(userDbTransferObject{
		Login:        u.Login,
		PasswordHash: u.PasswordHash,
	})
}

func (u *User) UnmarshalBSON(data []byte) error {
	var tmp userDbTransferObject

	if err := bson.Unmarshal(data, &tmp); err != nil {
		return err
	}

	u.Id = tmp.Id.Hex()
	u.Login = tmp.Login
	u.PasswordHash = tmp.PasswordHash

	return nil
}

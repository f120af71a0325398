package storage

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	// Hex value of _id in mongo
	Id   string
	Text string
	// Hex value of the author's _id in mongo
	AuthorId    string
	AuthorLogin string
	// Hex value of the parent post's _id, empty at thread roots
	ReplyTo        string
	Hashtags       []string
	Score          int
	FavouriteCount int
	Favourited     bool
	Time           string
}

func NewPost() *Post {
	return &Post{}
}

var hashtagRegex = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags pulls the distinct #tags out of post text, lowercased so
// the feed pipelines always see a normalized tag.
func ExtractHashtags(text string) []string {
	tags := make([]string, 0)
	seen := make(map[string]bool)

	for _, match := range hashtagRegex.FindAllStringSubmatch(text, -1) {
		tag := strings.ToLower(match[1])

		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	return tags
}

// ParsePostID validates a hex post identifier from the caller.
func ParsePostID(hex string) (primitive.ObjectID, error) {
	objId, err := primitive.ObjectIDFromHex(hex)

	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("bad post id %q: %w", hex, ErrInvalidArgument)
	}

	return objId, nil
}

type postAuthorTransferObject struct {
	Login string `bson:"login"`
}

type postDbTransferObject struct {
	Id             primitive.ObjectID        `bson:"_id,omitempty"`
	Text           string                    `bson:"text"`
	AuthorId       primitive.ObjectID        `bson:"authorId"`
	ReplyTo        *primitive.ObjectID       `bson:"replyTo,omitempty"`
	Hashtags       []string                  `bson:"hashtags"`
	Score          int                       `bson:"score"`
	CreatedAt      primitive.DateTime        `bson:"createdAt"`
	Author         *postAuthorTransferObject `bson:"author,omitempty"`
	FavouriteCount int                       `bson:"favouriteCount,omitempty"`
	Favourited     bool                      `bson:"favourited,omitempty"`
}

type FrontendHandlerTransferObject struct {
	Id             string   `json:"id"`
	Text           string   `json:"text"`
	AuthorId       string   `json:"authorId"`
	Author         string   `json:"author,omitempty"`
	ReplyTo        string   `json:"replyTo,omitempty"`
	Hashtags       []string `json:"hashtags"`
	Score          int      `json:"score"`
	FavouriteCount int      `json:"favouriteCount"`
	Favourited     bool     `json:"favourited,omitempty"`
	Time           string   `json:"createdAt,omitempty"`
}

func (p Post) MarshalBSON() ([]byte, error) {
	authorId, err := primitive.ObjectIDFromHex(p.AuthorId)

	if err != nil {
		return nil, fmt.Errorf("bad author id %q: %w", p.AuthorId, ErrInvalidArgument)
	}

	createdAt, err := time.Parse(time.RFC3339, p.Time)

	if err != nil {
		createdAt = time.Now().UTC()
	}

	dto := postDbTransferObject{
		Text:      p.Text,
		AuthorId:  authorId,
		Hashtags:  p.Hashtags,
		Score:     p.Score,
		CreatedAt: primitive.NewDateTimeFromTime(createdAt),
	}

	if dto.Hashtags == nil {
		dto.Hashtags = make([]string, 0)
	}

	if p.ReplyTo != "" {
		replyTo, err := ParsePostID(p.ReplyTo)

		if err != nil {
			return nil, err
		}

		dto.ReplyTo = &replyTo
	}

	return bson.Marshal(dto)
}

func (p *Post) UnmarshalBSON(data []byte) error {
	var tmp postDbTransferObject

	if err := bson.Unmarshal(data, &tmp); err != nil {
		return err
	}

	p.Id = tmp.Id.Hex()
	p.Text = tmp.Text
	p.AuthorId = tmp.AuthorId.Hex()
	p.Hashtags = tmp.Hashtags
	p.Score = tmp.Score
	p.FavouriteCount = tmp.FavouriteCount
	p.Favourited = tmp.Favourited
	p.Time = tmp.CreatedAt.Time().UTC().Format(time.RFC3339)

	if tmp.ReplyTo != nil {
		p.ReplyTo = tmp.ReplyTo.Hex()
	}

	if tmp.Author != nil {
		p.AuthorLogin = tmp.Author.Login
	}

	return nil
}

func (p Post) MarshalJSON() ([]byte, error) {
	return json.Marshal(FrontendHandlerTransferObject{
		Id:             p.Id,
		Text:           p.Text,
		AuthorId:       p.AuthorId,
		Author:         p.AuthorLogin,
		ReplyTo:        p.ReplyTo,
		Hashtags:       p.Hashtags,
		Score:          p.Score,
		FavouriteCount: p.FavouriteCount,
		Favourited:     p.Favourited,
		Time:           p.Time,
	})
}

func (p *Post) UnmarshalJSON(data []byte) error {
	var tmp FrontendHandlerTransferObject

	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	p.Id = tmp.Id
	p.Text = tmp.Text
	p.AuthorId = tmp.AuthorId
	p.AuthorLogin = tmp.Author
	p.ReplyTo = tmp.ReplyTo
	p.Hashtags = tmp.Hashtags
	p.Score = tmp.Score
	p.FavouriteCount = tmp.FavouriteCount
	p.Favourited = tmp.Favourited
	p.Time = tmp.Time

	return nil
}

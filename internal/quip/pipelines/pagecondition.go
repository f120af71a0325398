package pipelines

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the fixed number of posts per feed page.
const PageSize = 20

// SortMode selects the comparator for a feed query.
type SortMode int

const (
	// SortLatest orders by creation time descending, score as tiebreak.
	SortLatest SortMode = iota
	// SortPopular orders by score descending, creation time as tiebreak.
	SortPopular
)

// ParseSortMode maps the wire value to a SortMode. Anything other than
// "popular" means latest-first.
func ParseSortMode(value string) SortMode {
	if value == "popular" {
		return SortPopular
	}

	return SortLatest
}

type pageConditionKind int

const (
	noPredicate pageConditionKind = iota
	beforeID
	beforeScoreThenID
)

// PageCondition selects the posts strictly after the previous page's last
// row in sort order. The zero value matches everything, which is also what
// a first-page request gets.
type PageCondition struct {
	kind  pageConditionKind
	score int
	id    primitive.ObjectID
}

// NewPageCondition builds the page condition for the given sort mode and
// cursor. A popularity cursor needs both lastScore and lastID to rebuild
// the comparator; with lastScore missing the condition degrades to
// match-everything, so callers must not page a popularity feed without the
// last row's score.
func NewPageCondition(sort SortMode, lastScore *int, lastID *primitive.ObjectID) PageCondition {
	if lastID == nil {
		return PageCondition{kind: noPredicate}
	}

	if sort == SortLatest {
		// _id embeds the creation timestamp, so _id order is time order
		return PageCondition{kind: beforeID, id: *lastID}
	}

	if lastScore == nil {
		return PageCondition{kind: noPredicate}
	}

	return PageCondition{kind: beforeScoreThenID, score: *lastScore, id: *lastID}
}

// MatchStage renders the condition as a $match stage. The match-everything
// case stays an explicit stage so both feed pipelines keep a fixed shape.
func (c PageCondition) MatchStage() bson.D {
	switch c.kind {
	case beforeID:
		return bson.D{{Key: "$match", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$lt", Value: c.id}}},
		}}}
	case beforeScoreThenID:
		// same-score rows continue in _id order, strictly lower scores
		// always follow; mirrors the (score desc, _id desc) sort exactly
		return bson.D{{Key: "$match", Value: bson.D{
			{Key: "$expr", Value: bson.D{
				{Key: "$or", Value: bson.A{
					bson.D{{Key: "$and", Value: bson.A{
						bson.D{{Key: "$eq", Value: bson.A{"$score", c.score}}},
						bson.D{{Key: "$lt", Value: bson.A{"$_id", c.id}}},
					}}},
					bson.D{{Key: "$lt", Value: bson.A{"$score", c.score}}},
				}},
			}},
		}}}
	default:
		return bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: true}}}}
	}
}

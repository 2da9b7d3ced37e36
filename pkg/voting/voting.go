package voting

import "go.mongodb.org/mongo-driver/bson/primitive"

type (
	// Type is the vote requested by a client. Anything other than Up or Down
	// withdraws the user's vote.
	Type string

	State int

	// Request is the body of the vote endpoints.
	Request struct {
		VoteType Type `json:"voteType"`
	}

	// Ballot is the pair of vote sets attached to a post or a comment. A user
	// is a member of at most one of them.
	Ballot struct {
		Upvotes   []primitive.ObjectID `json:"upvotes" bson:"upvotes"`
		Downvotes []primitive.ObjectID `json:"downvotes" bson:"downvotes"`
	}
)

const (
	Up   Type = "up"
	Down Type = "down"
)

const (
	Unvoted State = iota
	Upvoted
	Downvoted
)

func NewBallot() Ballot {
	return Ballot{
		Upvotes:   []primitive.ObjectID{},
		Downvotes: []primitive.ObjectID{},
	}
}

// Cast removes userID from both sets and then records the requested vote.
func (b *Ballot) Cast(userID primitive.ObjectID, t Type) {
	b.Upvotes = without(b.Upvotes, userID)
	b.Downvotes = without(b.Downvotes, userID)

	switch t {
	case Up:
		b.Upvotes = append(b.Upvotes, userID)
	case Down:
		b.Downvotes = append(b.Downvotes, userID)
	}
}

// Count is the number of upvotes minus the number of downvotes.
func (b Ballot) Count() int {
	return len(b.Upvotes) - len(b.Downvotes)
}

func (b Ballot) StateOf(userID primitive.ObjectID) State {
	if contains(b.Upvotes, userID) {
		return Upvoted
	}
	if contains(b.Downvotes, userID) {
		return Downvoted
	}
	return Unvoted
}

func without(ids []primitive.ObjectID, userID primitive.ObjectID) []primitive.ObjectID {
	res := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id != userID {
			res = append(res, id)
		}
	}
	return res
}

func contains(ids []primitive.ObjectID, userID primitive.ObjectID) bool {
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}

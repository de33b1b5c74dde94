package models

import "time"

// Thought represents a short post authored by a user.
//
// Username is a denormalized weak reference to the author: it is stored
// as written and never validated against the users collection, and
// renaming a user does not rewrite historical thoughts.
type Thought struct {
	ID          string     `json:"id"`
	ThoughtText string     `json:"thoughtText"`
	Username    string     `json:"username"`
	CreatedAt   time.Time  `json:"createdAt"`
	Reactions   []Reaction `json:"reactions"`
}

// Reaction is a comment embedded in its parent thought. Reactions have no
// existence outside the owning thought and are addressed only by the
// (thought id, reaction id) pair.
type Reaction struct {
	ReactionID   string    `json:"reactionId"`
	ReactionBody string    `json:"reactionBody"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReactionCount returns the number of embedded reactions. Derived, not stored.
func (t *Thought) ReactionCount() int {
	return len(t.Reactions)
}

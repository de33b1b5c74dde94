// Package models contains data structures for the application's domain entities.
package models

// User represents an account in the social graph.
//
// Thoughts holds the identifiers of thoughts authored (owned) by this
// user: deleting the user deletes them. Friends holds weak references to
// other users; deleting a referenced user scrubs the identifier from this
// set but never cascades into this record.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Thoughts []string `json:"thoughts"`
	Friends  []string `json:"friends"`
}

// FriendCount returns the number of friend references. Derived, not stored.
func (u *User) FriendCount() int {
	return len(u.Friends)
}

// ThoughtCount returns the number of owned thoughts. Derived, not stored.
func (u *User) ThoughtCount() int {
	return len(u.Thoughts)
}

// HasFriend reports whether friendID is present in the user's friends set.
func (u *User) HasFriend(friendID string) bool {
	for _, id := range u.Friends {
		if id == friendID {
			return true
		}
	}
	return false
}

// OwnsThought reports whether thoughtID is present in the user's thoughts list.
func (u *User) OwnsThought(thoughtID string) bool {
	for _, id := range u.Thoughts {
		if id == thoughtID {
			return true
		}
	}
	return false
}

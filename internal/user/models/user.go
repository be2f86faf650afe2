package models

// User is the identity record tracked by the service. Storage lives behind
// the store.Store interface; the ID is assigned by the store at creation and
// is never client-supplied.
//
// Password holds the bcrypt hash of the user's password and is excluded from
// JSON so it can never appear in an API response.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"-"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Credentials is the transient pair presented when requesting a token.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

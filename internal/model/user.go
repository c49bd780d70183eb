package model

// User is the caller as resolved from the identity provider.
// Every stored record is partitioned by User.ID.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

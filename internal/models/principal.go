package models

// Principal is the already-authenticated identity a request acts as.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

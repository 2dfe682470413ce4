package models

// Session is the result of a successful login. DataKey is plaintext key
// material and must be wiped by the owner when the session ends.
type Session struct {
	UserID  string
	Name    string
	Email   string
	DataKey []byte
}

package dto

// Session is the per-request authenticated principal. It is built once by the
// auth middleware and passed by value into every service operation; nothing
// reads auth state from globals.
type Session struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

package auth

// Identity is the resolved caller of a request: the identifier bound to the
// session plus whether it is the distinguished admin account. It is placed
// on the request context by the auth middleware and passed explicitly into
// every service call instead of being read from ambient state.
type Identity struct {
	Identifier string
	Admin      bool
	SessionID  string
}

package user

// Principal identifies the authenticated caller behind a request. It is
// produced by the access service's token verification and carried through
// the request context.
type Principal struct {
	UserID      string
	DisplayName string
	Email       string
}

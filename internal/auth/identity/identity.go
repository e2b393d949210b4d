package identity

import (
	userdomain "github.com/okovalenko/bloglist/internal/user/domain"
)

// Identity is the resolved caller of one request: either bound to exactly
// one live user, or explicitly absent. Consumers must unpack it through
// User, so both cases are always handled.
type Identity struct {
	user     userdomain.User
	resolved bool
}

func None() Identity {
	return Identity{}
}

func Resolved(user userdomain.User) Identity {
	return Identity{user: user, resolved: true}
}

func (id Identity) User() (userdomain.User, bool) {
	return id.user, id.resolved
}

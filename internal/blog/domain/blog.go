package domain

import (
	"time"

	userdomain "github.com/okovalenko/bloglist/internal/user/domain"
)

type ID string

// Blog always has exactly one owner once created; ownership never
// transfers.
type Blog struct {
	ID        ID
	Title     string
	Author    string
	URL       string
	Likes     int
	OwnerID   userdomain.ID
	CreatedAt time.Time
}

// Owner carries the owner's public fields for joined reads; the password
// digest never leaves the repository layer through this type.
type Owner struct {
	ID       userdomain.ID
	Username string
	Name     string
}

type WithOwner struct {
	Blog
	Owner Owner
}

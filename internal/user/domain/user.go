package domain

import "time"

type ID string

// User owns a set of blog ids; the set is maintained bidirectionally with
// the blogs table on create and delete.
type User struct {
	ID           ID
	Username     string
	Name         string
	PasswordHash string
	BlogIDs      []string
	CreatedAt    time.Time
}

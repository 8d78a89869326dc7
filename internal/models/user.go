// Package models contains data structures for the application's domain models.
package models

import "time"

// Roles assignable to a user. Registration always assigns RoleUser;
// RoleAdmin is only granted out-of-band.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// HandleList is a set of user handles persisted as a JSON array column.
// Membership is what matters; order is irrelevant.
type HandleList []string

// Contains reports whether handle is a member of the list.
func (l HandleList) Contains(handle string) bool {
	for _, h := range l {
		if h == handle {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with handle removed.
func (l HandleList) Without(handle string) HandleList {
	out := make(HandleList, 0, len(l))
	for _, h := range l {
		if h != handle {
			out = append(out, h)
		}
	}
	return out
}

// User represents an account in the Atelier application.
//
// Following and Followers hold peer handles and are the authoritative
// representation of the social graph. FollowersCount mirrors len(Followers)
// so the most-followed query can sort in SQL; it is derived, never trusted
// as a source of truth.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Handle         string     `gorm:"uniqueIndex;not null" json:"handle"`
	Password       string     `gorm:"not null" json:"-"`
	ProfilePicture string     `json:"profile_picture"`
	Following      HandleList `gorm:"serializer:json;type:text" json:"following"`
	Followers      HandleList `gorm:"serializer:json;type:text" json:"followers"`
	FollowersCount int        `gorm:"index" json:"followers_count"`
	Artist         bool       `json:"artist"`
	Role           string     `gorm:"default:USER" json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

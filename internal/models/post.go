package models

import "time"

// MaxPostContentLen bounds post content, matching the client-side limit.
const MaxPostContentLen = 280

// IDList is a set of user IDs persisted as a JSON array column.
type IDList []uint

// Contains reports whether id is a member of the list.
func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with id removed.
func (l IDList) Without(id uint) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Post represents a piece of content in the Atelier application.
//
// PostedBy is the author's handle, not their numeric ID; posts, bios and
// follows all link to users by handle. LikedBy holds the IDs of users who
// liked the post, with LikesCount as the derived sorting column.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	PostImage  string    `json:"post_image"`
	PostedBy   string    `gorm:"index;not null" json:"posted_by"`
	LikedBy    IDList    `gorm:"serializer:json;type:text" json:"liked_by"`
	LikesCount int       `gorm:"index" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

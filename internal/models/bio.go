package models

// Field length bounds for bios, matching the original client contract.
const (
	MaxBioBodyLen     = 160
	MaxBioWebsiteLen  = 255
	MaxBioLocationLen = 48
)

// Bio is a user's profile text. At most one exists per user; the unique
// index on UserID enforces it and writes go through create-or-update.
type Bio struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Body     string `json:"body"`
	Website  string `json:"website"`
	Location string `json:"location"`
}

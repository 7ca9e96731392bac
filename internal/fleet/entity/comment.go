package entity

import (
	"time"

	"gorm.io/datatypes"
)

// CommentMaxLength message length limit in characters
const CommentMaxLength = 200

// Comment message in a record's thread
type Comment struct {
	ID         string                      `json:"id" gorm:"primaryKey;size:32"`
	ParentID   string                      `json:"parent_id" gorm:"size:36;not null;index"`
	AuthorID   string                      `json:"author_id" gorm:"size:32;not null"`
	AuthorName string                      `json:"author_name" gorm:"size:128"`
	Message    string                      `json:"message" gorm:"type:text;not null"`
	Attachment string                      `json:"attachment,omitempty" gorm:"size:512"`
	ReadBy     datatypes.JSONSlice[string] `json:"read_by"`
	CreatedAt  time.Time                   `json:"created_at" gorm:"index"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsReadBy authors never have their own comments unread
func (c *Comment) IsReadBy(userID string) bool {
	if c.AuthorID == userID {
		return true
	}
	for _, id := range c.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// AddReader adds userID to ReadBy and reports whether the set changed
func (c *Comment) AddReader(userID string) bool {
	for _, id := range c.ReadBy {
		if id == userID {
			return false
		}
	}
	c.ReadBy = append(c.ReadBy, userID)
	return true
}

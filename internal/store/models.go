package store

import (
	"github.com/pgvector/pgvector-go"
)

// User is a registered identity. Users are created on registration and read
// during authentication; there are no update or delete paths.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         string `gorm:"size:32;not null;default:user" json:"role"`
}

func (User) TableName() string { return "users" }

// Category is a named article grouping, unique by name.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:128;not null" json:"name"`
}

func (Category) TableName() string { return "categories" }

// Article carries the authored text plus the embedding vector computed at
// creation time. SearchText is a lowercased derivation of title and content
// kept for store-side text filtering.
type Article struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Title      string          `gorm:"size:256;not null" json:"title"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	Vector     pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	SearchText string          `gorm:"type:text" json:"search_text,omitempty"`
	CategoryID uint            `gorm:"not null" json:"category_id"`
	Category   *Category       `json:"category,omitempty"`
}

func (Article) TableName() string { return "articles" }

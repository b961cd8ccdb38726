package models

import "time"

// Category is a fixed taxonomy entry. Skills are linked to categories by
// keyword match against their name and description.
type Category struct {
	ID       string `gorm:"primaryKey;size:64" json:"id"`
	Name     string `gorm:"size:100" json:"name"`
	Keywords string `gorm:"size:500" json:"keywords"` // comma-separated match terms

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}

package domain

import "time"

// Banner is a single-image hero banner. Image references one file under the
// shared upload directory.
type Banner struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	Title       string    `gorm:"size:512" json:"title"`
	Subtitle    string    `gorm:"size:512" json:"subtitle"`
	Description string    `json:"description"`
	Link        string    `gorm:"size:1024" json:"link"`
	Image       string    `gorm:"size:1024" json:"image"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Banner) TableName() string {
	return "cms_banner"
}

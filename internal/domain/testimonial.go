package domain

import "time"

// Testimonial is a customer quote shown on the home page. Rating is 1-5.
// Records are immutable after the last admin edit; no updated timestamp is
// tracked.
type Testimonial struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	Title       string    `gorm:"size:512" json:"title"`
	Rating      int       `json:"rating"`
	Content     string    `json:"content"`
	Name        string    `gorm:"size:255" json:"name"`
	Designation string    `gorm:"size:255" json:"designation"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName Specify table name
func (Testimonial) TableName() string {
	return "cms_testimonial"
}

package domain

import "time"

// Blog is a post on the marketing site. Slug is derived from the title and
// unique across posts.
type Blog struct {
	ID              int64      `gorm:"primaryKey" json:"id,string"`
	Title           string     `gorm:"size:512" json:"title"`
	Slug            string     `gorm:"size:512;uniqueIndex" json:"slug"`
	CreatedBy       string     `gorm:"size:255" json:"createdBy"`
	Date            *time.Time `json:"date"`
	Description     string     `json:"description"`
	MoreDescription string     `json:"moreDescription"`
	QuoteOfTheDay   string     `json:"quoteOfTheDay"`
	SubTitle        string     `gorm:"size:512" json:"subTitle"`
	SubDescription  string     `json:"subDescription"`
	Tags            StringList `gorm:"type:text" json:"tags"`
	ExtraPoints     StringList `gorm:"type:text" json:"extraPoints"`
	ExtraTitle      string     `gorm:"size:512" json:"extraTitle"`
	Images          StringList `gorm:"type:text" json:"images"`
	SeoTitle        string     `gorm:"size:512" json:"seoTitle"`
	SeoKeywords     StringList `gorm:"type:text" json:"seoKeywords"`
	SeoDescription  string     `json:"seoDescription"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Blog) TableName() string {
	return "cms_blog"
}

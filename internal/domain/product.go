package domain

import "time"

// Product is a catalog entry on the marketing site. Slug is derived from the
// title and unique across products; Images reference files owned by the asset
// store under the shared upload directory.
type Product struct {
	ID                  int64      `gorm:"primaryKey" json:"id,string"`
	Title               string     `gorm:"size:512" json:"title"`
	Slug                string     `gorm:"size:512;uniqueIndex" json:"slug"`
	Description         string     `json:"description"`
	SubDescription      string     `json:"subDescription"`
	ChemicalBase        string     `gorm:"size:255" json:"chemicalBase"`
	Appearance          string     `gorm:"size:255" json:"appearance"`
	ShelfLife           string     `gorm:"size:255" json:"shelfLife"`
	CureTime            string     `gorm:"size:255" json:"cureTime"`
	ApplicationTips     string     `json:"applicationTips"`
	AvailablePacks      StringList `gorm:"type:text" json:"availablePacks"`
	KeyFeatures         StringList `gorm:"type:text" json:"keyFeatures"`
	Images              StringList `gorm:"type:text" json:"images"`
	QuestionsAndAnswers QAList     `gorm:"type:text" json:"questionsAndAnswers"`
	SeoTitle            string     `gorm:"size:512" json:"seoTitle"`
	SeoKeywords         StringList `gorm:"type:text" json:"seoKeywords"`
	SeoDescription      string     `json:"seoDescription"`
	IsActive            bool       `gorm:"default:true" json:"isActive"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "cms_product"
}

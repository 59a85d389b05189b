package model

type Item struct {
	BaseModel
	CategoryID  string  `db:"category_id" json:"category_id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	ImageURL    string  `db:"image_url" json:"image_url"` // Empty when no image was uploaded
}

// ItemView is an item labelled with its category names for display.
// Labels are empty when the category can no longer be resolved.
type ItemView struct {
	Item
	CategoryName   string `json:"category_name"`
	ParentCategory string `json:"parent_category"`
	Subcategory    string `json:"subcategory"`
}

package model

type Category struct {
	BaseModel
	ParentID      *string    `db:"parent_id" json:"parent_id"` // Nullable, nil means top-level
	Name          string     `db:"name" json:"name"`
	Subcategories []Category `db:"-" json:"subcategories,omitempty"` // For tree structure, not in DB
}

// IsTopLevel reports whether the category sits at the first level of the tree.
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}

// RootID is the id of the top-level category owning c.
func (c *Category) RootID() string {
	if c.ParentID != nil {
		return *c.ParentID
	}
	return c.ID
}

// Occupancy counts what depends on a category.
type Occupancy struct {
	Items         int `db:"items_count" json:"items_count"`
	Subcategories int `db:"subcategories_count" json:"subcategories_count"`
}

func (o Occupancy) IsEmpty() bool {
	return o.Items == 0 && o.Subcategories == 0
}

// CascadeResult reports what a forced delete removed besides the category itself.
type CascadeResult struct {
	ItemsDeleted         int `json:"items_deleted"`
	SubcategoriesDeleted int `json:"subcategories_deleted"`
}

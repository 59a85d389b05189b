package dto

type CreateCategoryInput struct {
	ParentID *string // nil or empty means top-level
	Name     string
}

type RenameCategoryInput struct {
	ID   string
	Name string
}

package dto

// Price is taken as decoded from the request (number, numeric string or
// absent) and coerced leniently by the use case.
type CreateItemInput struct {
	CategoryID  string
	Name        string
	Description string
	Price       any
	ImageURL    string
}

type UpdateItemInput struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Price       any
	ImageURL    string
}

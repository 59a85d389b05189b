package model

import "time"

type BaseModel struct {
	ID        string    `db:"id" json:"id"`
	Seq       int64     `db:"seq" json:"-"` // creation order
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

package model

import "time"

type Creator struct {
	Name string `json:"name"`
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Creator   Creator   `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostUpdate holds field overrides; nil fields keep their stored value.
type PostUpdate struct {
	Title    *string
	Content  *string
	ImageURL *string
}

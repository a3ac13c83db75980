package domain

import "github.com/google/uuid"

type Post struct {
	ID      uuid.UUID `json:"_id"`
	Title   string    `json:"title"`
	Content string    `json:"content,omitempty"`
	Owner   string    `json:"owner"`
}

func (p *Post) SetID(id uuid.UUID)    { p.ID = id }
func (p *Post) SetOwner(owner string) { p.Owner = owner }

func (p *Post) Validate() error {
	if p.Title == "" {
		return ErrMissingField("title")
	}
	if p.Owner == "" {
		return ErrMissingField("owner")
	}
	return nil
}

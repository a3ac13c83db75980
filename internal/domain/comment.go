package domain

import "github.com/google/uuid"

type Comment struct {
	ID      uuid.UUID `json:"_id"`
	Content string    `json:"content"`
	PostID  string    `json:"postId"`
	Owner   string    `json:"owner"`
}

func (c *Comment) SetID(id uuid.UUID)    { c.ID = id }
func (c *Comment) SetOwner(owner string) { c.Owner = owner }

func (c *Comment) Validate() error {
	if c.Content == "" {
		return ErrMissingField("content")
	}
	if c.PostID == "" {
		return ErrMissingField("postId")
	}
	if c.Owner == "" {
		return ErrMissingField("owner")
	}
	return nil
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blogapp/backend/internal/domain"
	"github.com/blogapp/backend/internal/middleware"
)

// Crud is a parametric handler set over a storage capability. Resource
// specifics (ownership stamping on create) are composed in as decorators
// rather than expressed through embedding.
type Crud[T domain.Resource] struct {
	store    domain.Store[T]
	newItem  func() T
	decorate []func(*http.Request, T)
}

func NewCrud[T domain.Resource](store domain.Store[T], newItem func() T, decorators ...func(*http.Request, T)) *Crud[T] {
	return &Crud[T]{
		store:    store,
		newItem:  newItem,
		decorate: decorators,
	}
}

// StampOwner copies the authenticated principal into the item's owner
// field before it is persisted.
func StampOwner[T domain.Resource](r *http.Request, item T) {
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		item.SetOwner(userID.String())
	}
}

func (c *Crud[T]) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := c.store.List(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (c *Crud[T]) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := c.store.GetByID(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (c *Crud[T]) Create(w http.ResponseWriter, r *http.Request) {
	item := c.newItem()
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, fn := range c.decorate {
		fn(r, item)
	}

	if err := item.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.store.Create(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (c *Crud[T]) UpdateByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item := c.newItem()
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := c.store.Update(r.Context(), id, item)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (c *Crud[T]) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if _, err := c.store.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	if err := c.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

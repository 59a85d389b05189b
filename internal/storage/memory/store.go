// Package memory keeps the whole catalog in process memory. It backs the
// memory storage driver and the use case tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// Store holds categories and items in creation order. Reads share the lock;
// each write holds it exclusively for its whole duration.
type Store struct {
	mu         sync.RWMutex
	seq        int64
	categories []model.Category
	items      []model.Item
}

func New() *Store {
	return &Store{}
}

// Categories returns the category repository view of the store.
func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{s: s}
}

// Items returns the item repository view of the store.
func (s *Store) Items() *ItemRepository {
	return &ItemRepository{s: s}
}

// ReadAll copies every category and item under one read lock.
func (s *Store) ReadAll(_ context.Context) ([]model.Category, []model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]model.Category, len(s.categories))
	for i, c := range s.categories {
		categories[i] = cloneCategory(c)
	}
	items := make([]model.Item, len(s.items))
	copy(items, s.items)
	return categories, items, nil
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *Store) categoryIndex(id string) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) itemIndex(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// inSubtree reports whether categoryID is root or one of root's children.
func (s *Store) inSubtree(categoryID, root string) bool {
	if categoryID == root {
		return true
	}
	i := s.categoryIndex(categoryID)
	return i >= 0 && s.categories[i].ParentID != nil && *s.categories[i].ParentID == root
}

func cloneCategory(c model.Category) model.Category {
	if c.ParentID != nil {
		p := *c.ParentID
		c.ParentID = &p
	}
	c.Subcategories = nil
	return c
}

type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) Create(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.categoryIndex(c.ID) >= 0 {
		return fmt.Errorf("category %s already exists", c.ID)
	}
	if c.ParentID != nil && r.s.categoryIndex(*c.ParentID) < 0 {
		return fmt.Errorf("parent category %s does not exist", *c.ParentID)
	}
	c.Seq = r.s.nextSeq()
	r.s.categories = append(r.s.categories, cloneCategory(*c))
	return nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id string) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.s.categoryIndex(id)
	if i < 0 {
		return nil, nil
	}
	c := cloneCategory(r.s.categories[i])
	return &c, nil
}

func (r *CategoryRepository) FindAll(_ context.Context) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Category, len(r.s.categories))
	for i, c := range r.s.categories {
		out[i] = cloneCategory(c)
	}
	return out, nil
}

func (r *CategoryRepository) Update(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.categoryIndex(c.ID)
	if i < 0 {
		return apperror.NewNotFound("category", c.ID)
	}
	r.s.categories[i].Name = c.Name
	r.s.categories[i].UpdatedAt = c.UpdatedAt
	return nil
}

func (r *CategoryRepository) Occupancy(_ context.Context, id string) (model.Occupancy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var occ model.Occupancy
	for _, it := range r.s.items {
		if r.s.inSubtree(it.CategoryID, id) {
			occ.Items++
		}
	}
	for _, c := range r.s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			occ.Subcategories++
		}
	}
	return occ, nil
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.categoryIndex(id)
	if i < 0 {
		return apperror.NewNotFound("category", id)
	}
	for _, it := range r.s.items {
		if it.CategoryID == id {
			return fmt.Errorf("category %s is still referenced by item %s", id, it.ID)
		}
	}
	for _, c := range r.s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return fmt.Errorf("category %s is still referenced by subcategory %s", id, c.ID)
		}
	}
	r.s.categories = append(r.s.categories[:i:i], r.s.categories[i+1:]...)
	return nil
}

func (r *CategoryRepository) DeleteCascade(_ context.Context, id string) (model.CascadeResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result model.CascadeResult
	if r.s.categoryIndex(id) < 0 {
		return result, apperror.NewNotFound("category", id)
	}

	// Build the surviving state aside and swap it in at the end, so nothing
	// partial is ever visible.
	items := make([]model.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if r.s.inSubtree(it.CategoryID, id) {
			result.ItemsDeleted++
			continue
		}
		items = append(items, it)
	}

	categories := make([]model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		switch {
		case c.ID == id:
		case c.ParentID != nil && *c.ParentID == id:
			result.SubcategoriesDeleted++
		default:
			categories = append(categories, c)
		}
	}

	r.s.items = items
	r.s.categories = categories
	return result, nil
}

type ItemRepository struct {
	s *Store
}

func (r *ItemRepository) Create(_ context.Context, it *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.itemIndex(it.ID) >= 0 {
		return fmt.Errorf("item %s already exists", it.ID)
	}
	if r.s.categoryIndex(it.CategoryID) < 0 {
		return fmt.Errorf("category %s does not exist", it.CategoryID)
	}
	it.Seq = r.s.nextSeq()
	r.s.items = append(r.s.items, *it)
	return nil
}

func (r *ItemRepository) FindByID(_ context.Context, id string) (*model.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.s.itemIndex(id)
	if i < 0 {
		return nil, nil
	}
	it := r.s.items[i]
	return &it, nil
}

func (r *ItemRepository) FindAll(_ context.Context) ([]model.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Item, len(r.s.items))
	copy(out, r.s.items)
	return out, nil
}

func (r *ItemRepository) Update(_ context.Context, it *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.itemIndex(it.ID)
	if i < 0 {
		return apperror.NewNotFound("item", it.ID)
	}
	if r.s.categoryIndex(it.CategoryID) < 0 {
		return fmt.Errorf("category %s does not exist", it.CategoryID)
	}
	stored := *it
	stored.Seq = r.s.items[i].Seq
	stored.CreatedAt = r.s.items[i].CreatedAt
	r.s.items[i] = stored
	return nil
}

func (r *ItemRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.itemIndex(id)
	if i < 0 {
		return apperror.NewNotFound("item", id)
	}
	r.s.items = append(r.s.items[:i:i], r.s.items[i+1:]...)
	return nil
}

package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"scan2know/models"
)

type memCatalog struct {
	items []models.Ingredient
	err   error
}

func (c *memCatalog) All(ctx context.Context) ([]models.Ingredient, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.items, nil
}

func (c *memCatalog) Search(ctx context.Context, q string) ([]models.Ingredient, error) {
	if c.err != nil {
		return nil, c.err
	}
	q = strings.ToLower(q)
	var out []models.Ingredient
	for _, it := range c.items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *memCatalog) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	for _, it := range c.items {
		if it.ID == id {
			it := it
			return &it, nil
		}
	}
	return nil, ErrNotFound
}

type memHistory struct {
	mu     sync.Mutex
	events []models.ScanEvent
	err    error
}

func (h *memHistory) Append(ctx context.Context, ev *models.ScanEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	ev.ID = uint(len(h.events) + 1)
	h.events = append(h.events, *ev)
	return nil
}

func (h *memHistory) Recent(ctx context.Context, userID uint, n int) ([]models.ScanEvent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []models.ScanEvent
	for _, ev := range h.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (h *memHistory) Get(ctx context.Context, userID, id uint) (*models.ScanEvent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ev := range h.events {
		if ev.ID == id && ev.UserID == userID {
			ev := ev
			return &ev, nil
		}
	}
	return nil, ErrNotFound
}

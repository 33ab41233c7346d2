package services

import (
	"context"
	"time"

	"scan2know/models"
)

const recentSearchLimit = 10

type RecentSearch struct {
	ID            uint            `json:"id"`
	ProductName   string          `json:"productName"`
	OverallRating models.Severity `json:"overallRating"`
	Timestamp     time.Time       `json:"timestamp"`
}

// UserService serves the per-user views over scan history.
type UserService struct {
	history  HistoryStore
	products *ProductService
}

func NewUserService(history HistoryStore, products *ProductService) *UserService {
	return &UserService{history: history, products: products}
}

func (s *UserService) RecentSearches(ctx context.Context, userID uint) ([]RecentSearch, error) {
	events, err := s.history.Recent(ctx, userID, recentSearchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]RecentSearch, 0, len(events))
	for _, ev := range events {
		out = append(out, RecentSearch{
			ID:            ev.ID,
			ProductName:   ev.ProductName,
			OverallRating: ev.OverallRating,
			Timestamp:     ev.Timestamp,
		})
	}
	return out, nil
}

// ScanDetail returns ErrNotFound for scans owned by someone else.
func (s *UserService) ScanDetail(ctx context.Context, userID, scanID uint) (*models.ScanEvent, error) {
	return s.history.Get(ctx, userID, scanID)
}

func (s *UserService) Recommendations(ctx context.Context, userID uint) ([]Recommendation, error) {
	return s.products.Recommendations(ctx)
}

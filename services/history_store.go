package services

import (
	"context"
	"errors"

	"scan2know/models"

	"gorm.io/gorm"
)

// HistoryStore is the append-only per-user record of scans.
type HistoryStore interface {
	Append(ctx context.Context, ev *models.ScanEvent) error
	// Recent returns at most n scans of the user, newest first.
	Recent(ctx context.Context, userID uint, n int) ([]models.ScanEvent, error)
	Get(ctx context.Context, userID, id uint) (*models.ScanEvent, error)
}

type GormHistory struct {
	db *gorm.DB
}

func NewGormHistory(db *gorm.DB) *GormHistory {
	return &GormHistory{db: db}
}

func (h *GormHistory) Append(ctx context.Context, ev *models.ScanEvent) error {
	return h.db.WithContext(ctx).Create(ev).Error
}

func (h *GormHistory) Recent(ctx context.Context, userID uint, n int) ([]models.ScanEvent, error) {
	if n <= 0 {
		n = 10
	}
	var out []models.ScanEvent
	err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(n).
		Find(&out).Error
	return out, err
}

func (h *GormHistory) Get(ctx context.Context, userID, id uint) (*models.ScanEvent, error) {
	var ev models.ScanEvent
	err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

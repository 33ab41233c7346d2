package services

import (
	"context"
	"fmt"

	"scan2know/models"

	"github.com/apex/log"
	"gorm.io/gorm"
)

const (
	AlertWarning = "warning"
	AlertInfo    = "info"
)

type Pusher interface {
	PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string)
}

type AlertMailer interface {
	SendScanAlert(ctx context.Context, to, productName, summary string) error
}

// AlertBus stores alerts and fans them out to open sockets, devices and
// mail. Every channel besides the database is optional.
type AlertBus struct {
	db     *gorm.DB
	hub    *RealtimeHub
	push   Pusher
	mailer AlertMailer
}

func NewAlertBus(db *gorm.DB, hub *RealtimeHub, push Pusher, mailer AlertMailer) *AlertBus {
	return &AlertBus{db: db, hub: hub, push: push, mailer: mailer}
}

// Emit persists one alert and delivers it. Delivery failures are logged.
func (b *AlertBus) Emit(ctx context.Context, userID uint, scanID *uint, typ, message string) (*models.Alert, error) {
	a := &models.Alert{UserID: userID, ScanID: scanID, Type: typ, Message: message}
	if err := b.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("failed to store alert: %w", err)
	}

	if b.hub != nil {
		b.hub.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if b.push != nil {
		b.push.PushToUser(ctx, userID, "New Alert", message, map[string]string{
			"type":    typ,
			"alertId": fmt.Sprintf("%d", a.ID),
		})
	}
	return a, nil
}

// OnScan raises a warning for scans rated high.
func (b *AlertBus) OnScan(ctx context.Context, ev *models.ScanEvent) {
	if ev.OverallRating != models.SeverityHigh {
		return
	}
	logger := log.WithFields(log.Fields{"user_id": ev.UserID, "scan_id": ev.ID})

	scanID := ev.ID
	msg := fmt.Sprintf("%s contains %d high-risk ingredients", ev.ProductName, ev.SeverityCounts.High)
	if _, err := b.Emit(ctx, ev.UserID, &scanID, AlertWarning, msg); err != nil {
		logger.WithError(err).Error("failed to emit scan alert")
	}

	if b.mailer == nil {
		return
	}
	var user models.User
	if err := b.db.WithContext(ctx).Select("email").First(&user, ev.UserID).Error; err != nil {
		logger.WithError(err).Warn("no email for scan alert")
		return
	}
	if err := b.mailer.SendScanAlert(ctx, user.Email, ev.ProductName, ev.Summary); err != nil {
		logger.WithError(err).Warn("failed to mail scan alert")
	}
}

// List returns the user's alerts, newest first.
func (b *AlertBus) List(ctx context.Context, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.Alert
	err := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"scan2know/models"

	"github.com/apex/log"
	"github.com/streadway/amqp"
)

const scanCompletedEvent = "scan.completed"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// EventPublisher announces completed scans on a RabbitMQ exchange.
type EventPublisher struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	channel    amqpChannel
	exchange   string
	routingKey string
}

type ScanCompleted struct {
	Event          string                `json:"event"`
	ScanID         uint                  `json:"scanId"`
	UserID         uint                  `json:"userId"`
	ProductName    string                `json:"productName"`
	OverallRating  models.Severity       `json:"overallRating"`
	SeverityCounts models.SeverityCounts `json:"severityCounts"`
	OrgansAffected []string              `json:"organsAffected"`
	Timestamp      time.Time             `json:"timestamp"`
}

func NewEventPublisher(amqpURL, exchange, routingKey string) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &EventPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// Publish sends message as persistent JSON with the configured routing key.
func (p *EventPublisher) Publish(ctx context.Context, message interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message to JSON: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Publish(p.exchange, p.routingKey, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// OnScan publishes a scan.completed event; failures are only logged.
func (p *EventPublisher) OnScan(ctx context.Context, ev *models.ScanEvent) {
	msg := ScanCompleted{
		Event:          scanCompletedEvent,
		ScanID:         ev.ID,
		UserID:         ev.UserID,
		ProductName:    ev.ProductName,
		OverallRating:  ev.OverallRating,
		SeverityCounts: ev.SeverityCounts,
		OrgansAffected: nonNil(ev.OrgansAffected),
		Timestamp:      ev.Timestamp,
	}
	if err := p.Publish(ctx, msg); err != nil {
		log.WithError(err).WithField("scan_id", ev.ID).Error("failed to publish scan event")
	}
}

func (p *EventPublisher) Close() error {
	var err error
	if p.channel != nil {
		if channelErr := p.channel.Close(); channelErr != nil {
			log.WithError(channelErr).Warn("failed to close amqp channel")
			err = channelErr
		}
	}
	if p.conn != nil {
		if connErr := p.conn.Close(); connErr != nil {
			log.WithError(connErr).Warn("failed to close amqp connection")
			if err == nil {
				err = connErr
			}
		}
	}
	return err
}

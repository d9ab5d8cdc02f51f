// Package events announces catalog changes on NATS so the website and
// other consumers can rebuild without polling the JSON file.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/dukerupert/nursery/internal/domain"
)

const (
	// SubjectCatalogUpdated is published after every successful catalog write.
	SubjectCatalogUpdated = "nursery.catalog.updated"
)

// CatalogUpdated is the payload of SubjectCatalogUpdated.
type CatalogUpdated struct {
	RunID         string    `json:"run_id"`
	Command       string    `json:"command"`
	Source        string    `json:"source,omitempty"`
	CatalogPath   string    `json:"catalog_path"`
	TotalProducts int       `json:"total_products"`
	Inserted      int       `json:"inserted"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher sends catalog events.
type Publisher interface {
	CatalogUpdated(ctx context.Context, e CatalogUpdated) error
	Close()
}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes events over a core NATS connection.
type NATSPublisher struct {
	nc     conn
	logger zerolog.Logger
}

// Connect dials NATS at url. An empty url returns a publisher that drops
// every event, so commands run the same with or without a broker.
func Connect(url string, logger zerolog.Logger) (Publisher, error) {
	const op = "events.connect"

	if url == "" {
		return NopPublisher{}, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("nursery"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to connect to NATS")
	}
	logger.Debug().Str("url", nc.ConnectedUrl()).Msg("Connected to NATS")

	return newNATSPublisher(nc, logger), nil
}

func newNATSPublisher(nc conn, logger zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{nc: nc, logger: logger}
}

// CatalogUpdated publishes e and waits for the server to acknowledge the flush.
func (p *NATSPublisher) CatalogUpdated(ctx context.Context, e CatalogUpdated) error {
	const op = "events.catalog_updated"

	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return domain.Internal(err, op, "failed to encode event")
	}
	if err := p.nc.Publish(SubjectCatalogUpdated, data); err != nil {
		return domain.Internal(err, op, "failed to publish event")
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return domain.Internal(err, op, "failed to flush event")
	}

	p.logger.Info().
		Str("subject", SubjectCatalogUpdated).
		Str("run_id", e.RunID).
		Int("total_products", e.TotalProducts).
		Msg("Published catalog event")
	return nil
}

func (p *NATSPublisher) Close() {
	p.nc.Close()
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) CatalogUpdated(context.Context, CatalogUpdated) error { return nil }

func (NopPublisher) Close() {}

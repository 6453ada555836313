// Package events publishes build run results to NATS so downstream
// consumers (site deploy jobs, dashboards) can react to finished builds.
package events

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/apidocgen/internal/report"
)

// Publisher sends run reports to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("apidocgen"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("connected to NATS", "url", url, "subject", subject)
	return &Publisher{conn: conn, subject: subject}, nil
}

// PublishRun sends the run report as JSON.
func (p *Publisher) PublishRun(r *report.RunReport) error {
	payload, err := r.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish run report: %w", err)
	}
	return p.conn.Flush()
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

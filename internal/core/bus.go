package core

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// IngestReport is the message published after each ingestion attempt so
// downstream consumers (the dashboard, audit tooling) can react to new
// uploads without polling the object store.
type IngestReport struct {
	BatchID    string    `json:"batch_id"`
	SourceFile string    `json:"source_file"`
	Accepted   bool      `json:"accepted"`
	Events     int       `json:"events"`
	Dropped    int       `json:"dropped"` // rows lost to a missing alert time
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Marshal serializes the report to JSON.
func (r *IngestReport) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalIngestReport deserializes an IngestReport from JSON.
func UnmarshalIngestReport(data []byte) (*IngestReport, error) {
	var r IngestReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Subject returns the JetStream subject for this report.
func (r *IngestReport) Subject() string {
	if r.Accepted {
		return "pidws.ingest.accepted"
	}
	return "pidws.ingest.rejected"
}

// NotifyBus wraps NATS JetStream for ingestion notifications. If
// cfg.Embedded is true, it starts an embedded NATS server.
type NotifyBus struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	ns     *server.Server
	logger zerolog.Logger
	mu     sync.RWMutex
	subs   []*nats.Subscription
}

// NewNotifyBus connects to NATS and ensures the ingest stream exists.
func NewNotifyBus(cfg *BusConfig, logger zerolog.Logger) (*NotifyBus, error) {
	bus := &NotifyBus{
		logger: logger.With().Str("component", "notify_bus").Logger(),
	}

	if cfg.Embedded {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating NATS data dir: %w", err)
		}

		opts := &server.Options{
			Host:      "127.0.0.1",
			Port:      cfg.Port,
			JetStream: true,
			StoreDir:  cfg.DataDir,
			NoLog:     true,
			NoSigs:    true,
		}

		ns, err := server.NewServer(opts)
		if err != nil {
			return nil, fmt.Errorf("creating embedded NATS server: %w", err)
		}

		ns.Start()

		if !ns.ReadyForConnections(10 * time.Second) {
			return nil, fmt.Errorf("embedded NATS server failed to start within timeout")
		}

		bus.ns = ns
		bus.logger.Info().Int("port", cfg.Port).Msg("embedded NATS server started")
	}

	url := cfg.URL
	if cfg.Embedded {
		url = fmt.Sprintf("nats://127.0.0.1:%d", cfg.Port)
	}

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				bus.logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			bus.logger.Info().Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	bus.nc = nc

	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}
	bus.js = js

	// AddStream returns the existing stream if config matches; if the stream
	// exists with a different config (e.g. after a version upgrade), update it.
	streamCfg := &nats.StreamConfig{
		Name:      "PIDWS_INGEST",
		Subjects:  []string{"pidws.ingest.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour * 30, // 30 days retention
		MaxBytes:  256 * 1024 * 1024,   // 256MB max
		Storage:   nats.FileStorage,
		Discard:   nats.DiscardOld,
	}
	_, err = js.AddStream(streamCfg)
	if err != nil {
		if _, updateErr := js.UpdateStream(streamCfg); updateErr != nil {
			return nil, fmt.Errorf("creating/updating ingest stream: %w (original: %v)", updateErr, err)
		}
	}

	bus.logger.Info().Str("url", url).Msg("connected to NATS JetStream")
	return bus, nil
}

// PublishReport publishes an ingestion report to the stream.
func (b *NotifyBus) PublishReport(report *IngestReport) error {
	data, err := report.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	subject := report.Subject()
	if _, err := b.js.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing report to %s: %w", subject, err)
	}

	b.logger.Debug().
		Str("batch_id", report.BatchID).
		Str("subject", subject).
		Str("source_file", report.SourceFile).
		Msg("ingest report published")

	return nil
}

// SubscribeReports creates a durable subscription over all ingest reports.
func (b *NotifyBus) SubscribeReports(durableName string, handler func(report *IngestReport)) error {
	opts := []nats.SubOpt{nats.DeliverNew(), nats.AckExplicit()}
	if durableName != "" {
		opts = append(opts, nats.Durable(durableName))
	}
	sub, err := b.js.Subscribe("pidws.ingest.>", func(msg *nats.Msg) {
		report, err := UnmarshalIngestReport(msg.Data)
		if err != nil {
			b.logger.Error().Err(err).Msg("failed to unmarshal ingest report")
			_ = msg.Nak()
			return
		}
		handler(report)
		_ = msg.Ack()
	}, opts...)
	if err != nil {
		return fmt.Errorf("subscribing to ingest reports: %w", err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return nil
}

// Close shuts down the bus and any embedded server.
func (b *NotifyBus) Close() error {
	b.mu.Lock()
	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}
	b.subs = nil
	b.mu.Unlock()

	if b.nc != nil {
		b.nc.Close()
	}
	if b.ns != nil {
		b.ns.Shutdown()
		b.ns.WaitForShutdown()
	}
	return nil
}

// RejectionReason trims a rejection error into the short operator-facing
// string carried in the report. Rejection detail beyond "not recognized"
// is deliberately sparse; the uploader cannot act on parser internals.
func RejectionReason(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

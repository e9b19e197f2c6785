package ingest

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pidws-project/pidws/internal/core"
)

// Ingestor runs the full pipeline over single documents:
// decode → locate header → resolve schema → coerce rows.
type Ingestor struct {
	opts   ReadOptions
	logger zerolog.Logger
}

// NewIngestor creates an ingestor with the given read options.
func NewIngestor(opts ReadOptions, logger zerolog.Logger) *Ingestor {
	return &Ingestor{
		opts:   opts,
		logger: logger.With().Str("component", "ingestor").Logger(),
	}
}

// Result summarizes one ingestion attempt.
type Result struct {
	BatchID string
	Events  core.EventTable
	Dropped int // rows lost to a missing alert time
}

// Ingest validates one document end to end. Rejection is all-or-nothing:
// the document either passes the schema gate and contributes its surviving
// rows, or contributes zero events. Every fault below this boundary —
// unreadable bytes, corrupt spreadsheet container, a library panic — is
// converted to an error here; callers never see a raw parse fault.
func (ing *Ingestor) Ingest(doc RawDocument, prov Provenance) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			ing.logger.Error().Str("file", doc.Name).Interface("panic", r).
				Msg("parser panic converted to rejection")
			res = nil
			err = fmt.Errorf("%w: unreadable document %s", ErrSchemaUnrecognized, doc.Name)
		}
	}()

	if prov.BatchID == "" {
		prov.BatchID = uuid.New().String()
	}

	table, err := readTable(doc, ing.opts)
	if err != nil {
		ing.logger.Warn().Str("file", doc.Name).Err(err).Msg("document rejected")
		return nil, err
	}

	schema, err := ResolveSchema(table.labels)
	if err != nil {
		ing.logger.Warn().Str("file", doc.Name).Err(err).Msg("schema gate rejected document")
		return nil, err
	}

	res = &Result{BatchID: prov.BatchID}
	for _, row := range table.rows {
		event, ok := coerceRow(schema, row, prov)
		if !ok {
			res.Dropped++
			continue
		}
		res.Events = append(res.Events, event)
	}

	ing.logger.Info().
		Str("file", doc.Name).
		Str("batch_id", prov.BatchID).
		Int("events", len(res.Events)).
		Int("dropped", res.Dropped).
		Msg("document ingested")

	return res, nil
}

package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pidws-project/pidws/internal/core"
	"github.com/pidws-project/pidws/internal/ingest"
)

// CorpusLoader reconstructs the full historic event table from the object
// store: list, filter to alarm documents, ingest each, concatenate.
type CorpusLoader struct {
	store    ObjectStore
	ingestor *ingest.Ingestor
	logger   zerolog.Logger
}

// NewCorpusLoader creates a loader over a store and an ingestor.
func NewCorpusLoader(s ObjectStore, ing *ingest.Ingestor, logger zerolog.Logger) *CorpusLoader {
	return &CorpusLoader{
		store:    s,
		ingestor: ing,
		logger:   logger.With().Str("component", "corpus_loader").Logger(),
	}
}

// Load rebuilds the corpus. A single unreadable or rejected object never
// aborts reconstruction: it is logged and skipped, and the remaining
// objects still contribute. Only a failed List — the store itself
// unreachable — is fatal. Each object's ingestion date is its storage
// creation date, so re-uploading a filename replaces its contribution
// rather than duplicating it.
func (l *CorpusLoader) Load(ctx context.Context) (core.EventTable, error) {
	infos, err := l.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var table core.EventTable
	for _, info := range infos {
		if !ingest.InCorpus(info.Name) {
			continue
		}

		data, err := l.store.Get(ctx, info.Name)
		if err != nil {
			l.logger.Warn().Str("object", info.Name).Err(err).
				Msg("skipping unreadable object")
			continue
		}

		res, err := l.ingestor.Ingest(
			ingest.RawDocument{Name: info.Name, Content: data},
			ingest.Provenance{SourceFile: info.Name, IngestionDate: info.CreatedAt},
		)
		if err != nil {
			l.logger.Warn().Str("object", info.Name).Err(err).
				Msg("skipping unrecognized object")
			continue
		}

		table = table.Append(res.Events)
	}

	l.logger.Info().Int("objects", len(infos)).Int("events", len(table)).
		Msg("corpus reconstructed")
	return table, nil
}

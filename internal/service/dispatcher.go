// Package service contains the batch dispatch loop: normalize each message,
// create one document per message, and never let one message's failure
// affect its siblings.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/appwrite"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/logging"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/metrics"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/models"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/normalizer"
)

// DocumentCreator is the single document-store operation the dispatcher
// consumes. The Appwrite client satisfies it; tests substitute fakes.
type DocumentCreator interface {
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*appwrite.Document, error)
}

// Dispatcher normalizes envelopes and writes each as an independent
// document into one configured database collection.
type Dispatcher struct {
	store        DocumentCreator
	normalizer   *normalizer.Normalizer
	databaseID   string
	collectionID string
}

// NewDispatcher wires the dispatcher to its store and target collection.
func NewDispatcher(store DocumentCreator, norm *normalizer.Normalizer, databaseID, collectionID string) *Dispatcher {
	if norm == nil {
		norm = normalizer.New()
	}
	return &Dispatcher{
		store:        store,
		normalizer:   norm,
		databaseID:   databaseID,
		collectionID: collectionID,
	}
}

// ProcessBatch handles envelopes sequentially, in input order. Each
// message's store write is awaited before the next begins, so Results[i]
// always corresponds to envelopes[i]. A failed item is recorded and skipped,
// never retried, and never aborts the rest of the batch. The response-level
// Success is about the request as a whole and stays true regardless of
// per-item outcomes.
func (d *Dispatcher) ProcessBatch(ctx context.Context, envelopes []models.Envelope) *models.BatchResponse {
	results := make([]models.ItemResult, 0, len(envelopes))
	successful := 0

	for i := range envelopes {
		env := &envelopes[i]

		normalizeStart := time.Now()
		record := d.normalizer.Normalize(env)
		metrics.NormalizationDuration.Observe(time.Since(normalizeStart).Seconds())

		storeStart := time.Now()
		doc, err := d.store.CreateDocument(ctx, d.databaseID, d.collectionID, appwrite.UniqueID, record)
		metrics.StorageDuration.Observe(time.Since(storeStart).Seconds())

		if err != nil {
			metrics.StorageErrors.Inc()
			metrics.MessagesTotal.WithLabelValues("failed").Inc()
			slog.ErrorContext(ctx, "Failed to store message",
				logging.DeviceID(env.DeviceID),
				logging.Error(err),
			)
			results = append(results, models.ItemResult{
				DeviceID: env.DeviceID,
				Success:  false,
				Error:    err.Error(),
			})
			continue
		}

		successful++
		metrics.MessagesTotal.WithLabelValues("stored").Inc()
		slog.InfoContext(ctx, "Stored telemetry document",
			logging.DeviceID(env.DeviceID),
			logging.DocumentID(doc.ID),
			slog.String(logging.FieldAppID, record.AppID),
			slog.String("data_type", record.DataType),
		)
		results = append(results, models.ItemResult{
			DeviceID:   env.DeviceID,
			DocumentID: doc.ID,
			Success:    true,
		})
	}

	return &models.BatchResponse{
		Success:    true,
		Processed:  len(envelopes),
		Successful: successful,
		Results:    results,
	}
}

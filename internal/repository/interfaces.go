package repository

import (
	"context"

	"go-land-inspector/pkg/models"
)

// HistoryKey is the fixed blob key holding the serialized history.
const HistoryKey = "landAnalysisHistory"

// MaxHistoryEntries caps the stored history; the oldest entry is evicted first.
const MaxHistoryEntries = 20

// HistoryRepository defines the interface for saved analysis reports.
// Entries are ordered newest first and addressed by zero-based index.
type HistoryRepository interface {
	// Add prepends a report and evicts entries beyond MaxHistoryEntries
	Add(ctx context.Context, report *models.AnalysisReport) error

	// List returns all entries, newest first
	List(ctx context.Context) ([]*models.AnalysisReport, error)

	// Get returns the entry at index
	Get(ctx context.Context, index int) (*models.AnalysisReport, error)

	// Delete removes the entry at index
	Delete(ctx context.Context, index int) error

	// Clear removes every entry
	Clear(ctx context.Context) error
}

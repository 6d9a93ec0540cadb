package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	apperrors "go-land-inspector/internal/errors"
	"go-land-inspector/internal/logger"
	"go-land-inspector/internal/storage"
	"go-land-inspector/pkg/models"
)

// BlobHistoryRepository implements HistoryRepository as a single JSON array
// stored under HistoryKey.
type BlobHistoryRepository struct {
	store storage.BlobStore
	mu    sync.Mutex
}

// NewHistoryRepository creates a history repository over store
func NewHistoryRepository(store storage.BlobStore) HistoryRepository {
	return &BlobHistoryRepository{store: store}
}

func (r *BlobHistoryRepository) Add(ctx context.Context, report *models.AnalysisReport) error {
	if report == nil {
		return errors.New("report is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return err
	}
	entries = append([]*models.AnalysisReport{report}, entries...)
	if len(entries) > MaxHistoryEntries {
		entries = entries[:MaxHistoryEntries]
	}
	return r.save(ctx, entries)
}

func (r *BlobHistoryRepository) List(ctx context.Context) ([]*models.AnalysisReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

func (r *BlobHistoryRepository) Get(ctx context.Context, index int) (*models.AnalysisReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entries) {
		return nil, entryNotFound(index, len(entries))
	}
	return entries[index], nil
}

func (r *BlobHistoryRepository) Delete(ctx context.Context, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entries) {
		return entryNotFound(index, len(entries))
	}
	entries = append(entries[:index], entries[index+1:]...)
	return r.save(ctx, entries)
}

func (r *BlobHistoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, HistoryKey); err != nil {
		return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	return nil
}

func entryNotFound(index, size int) error {
	return apperrors.NewNotFoundError(
		fmt.Sprintf("History entry %d not found.", index+1),
		fmt.Errorf("%w: index %d of %d", ErrEntryNotFound, index, size),
	)
}

// load returns the stored entries. Missing or unreadable data is an empty
// history; only backend failures are errors.
func (r *BlobHistoryRepository) load(ctx context.Context) ([]*models.AnalysisReport, error) {
	data, err := r.store.Load(ctx, HistoryKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []*models.AnalysisReport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}

	var stored []*models.AnalysisReport
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.WithError(err).Warn("Discarding unreadable history")
		return []*models.AnalysisReport{}, nil
	}

	entries := make([]*models.AnalysisReport, 0, len(stored))
	for _, e := range stored {
		if e != nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (r *BlobHistoryRepository) save(ctx context.Context, entries []*models.AnalysisReport) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := r.store.Save(ctx, HistoryKey, data); err != nil {
		return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	return nil
}

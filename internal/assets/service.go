package assets

import (
	"context"
	"errors"
	"strings"

	"github.com/datacat/asset-service/internal/models"
	"github.com/datacat/asset-service/pkg/metrics"
)

var (
	// ErrNotFound reports that no asset exists for the requested id.
	ErrNotFound = errors.New("asset not found")
	// ErrValidation reports rejected input; no dependency has been touched.
	ErrValidation = errors.New("asset_name and asset_type are required")
)

// Source tags where a read was served from.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
)

// CreateInput carries the caller-supplied fields of a new asset.
type CreateInput struct {
	Name             string
	Type             string
	Owner            string
	SensitivityLevel string
}

// Service is the asset repository core: it mediates between the cache and the
// persistent store. Reads are read-through with a fixed TTL; a successful
// create deletes the aggregate list entry so the next list is forced to the
// store. Per-id entries are never touched on create: ids are monotonic, so a
// fresh id cannot have a stale entry.
//
// A cache failure fails the whole read. There is deliberately no skip-cache
// fallback path.
type Service struct {
	store Store
	cache Cache
}

func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

// ListAll returns every asset newest-first, tagged with the source that
// served it.
func (s *Service) ListAll(ctx context.Context) ([]models.Asset, string, error) {
	cached, err := s.cache.GetList(ctx)
	if err == nil {
		metrics.CacheHits.WithLabelValues("list").Inc()
		return cached, SourceCache, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, "", err
	}
	metrics.CacheMisses.WithLabelValues("list").Inc()

	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}
	if err := s.cache.SetList(ctx, list); err != nil {
		return nil, "", err
	}
	return list, SourceDatabase, nil
}

// GetByID returns one asset by id. The per-id cache entry is independent of
// the list entry. Absence is ErrNotFound, distinct from dependency failure.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.Asset, string, error) {
	cached, err := s.cache.GetAsset(ctx, id)
	if err == nil {
		metrics.CacheHits.WithLabelValues("by_id").Inc()
		return cached, SourceCache, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, "", err
	}
	metrics.CacheMisses.WithLabelValues("by_id").Inc()

	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.cache.SetAsset(ctx, a); err != nil {
		return nil, "", err
	}
	return a, SourceDatabase, nil
}

// Create validates the input, inserts the asset, then invalidates the list
// cache entry. A failed insert performs no cache mutation.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Asset, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Type) == "" {
		return nil, ErrValidation
	}

	a := &models.Asset{
		Name:             in.Name,
		Type:             in.Type,
		Owner:            in.Owner,
		SensitivityLevel: in.SensitivityLevel,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	if err := s.cache.DeleteList(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Metrics computes catalog aggregates straight from the store. The cache is
// bypassed so the numbers always reflect current state.
func (s *Service) Metrics(ctx context.Context) (*Metrics, error) {
	return s.store.Metrics(ctx)
}

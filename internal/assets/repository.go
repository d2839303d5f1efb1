package assets

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/datacat/asset-service/internal/models"
)

// Store provides asset persistence operations against the relational store.
type Store interface {
	ListAll(ctx context.Context) ([]models.Asset, error)
	GetByID(ctx context.Context, id int64) (*models.Asset, error)
	Create(ctx context.Context, a *models.Asset) error
	Metrics(ctx context.Context) (*Metrics, error)
}

// Metrics are aggregates computed directly against the store, never cached.
type Metrics struct {
	TotalAssets           int64 `json:"total_assets"`
	AssetTypes            int64 `json:"asset_types"`
	HighSensitivityAssets int64 `json:"high_sensitivity_assets"`
}

// GormStore implements Store on a gorm handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ListAll returns every asset newest-first. Ties on created_at (bulk inserts
// within one clock tick) fall back to id order so the result is deterministic.
func (s *GormStore) ListAll(ctx context.Context) ([]models.Asset, error) {
	var out []models.Asset
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetByID(ctx context.Context, id int64) (*models.Asset, error) {
	var a models.Asset
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get asset %d: %w", id, err)
	}
	return &a, nil
}

func (s *GormStore) Create(ctx context.Context, a *models.Asset) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (s *GormStore) Metrics(ctx context.Context) (*Metrics, error) {
	var m Metrics
	if err := s.db.WithContext(ctx).Model(&models.Asset{}).Count(&m.TotalAssets).Error; err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Asset{}).Distinct("asset_type").Count(&m.AssetTypes).Error; err != nil {
		return nil, fmt.Errorf("count asset types: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Asset{}).Where("sensitivity_level = ?", "HIGH").Count(&m.HighSensitivityAssets).Error; err != nil {
		return nil, fmt.Errorf("count high sensitivity assets: %w", err)
	}
	return &m, nil
}

package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datacat/asset-service/internal/database"
	"github.com/datacat/asset-service/internal/models"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewGormStore(db)
}

func TestStoreCreateAssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &models.Asset{Name: "a", Type: "Dataset"}
	require.NoError(t, s.Create(ctx, a))
	require.Equal(t, int64(1), a.ID)
	require.False(t, a.CreatedAt.IsZero())

	b := &models.Asset{Name: "b", Type: "Dataset"}
	require.NoError(t, s.Create(ctx, b))
	require.Equal(t, int64(2), b.ID)
}

func TestStoreGetByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListAllOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Create(ctx, &models.Asset{Name: name, Type: "Dataset"}))
	}

	list, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "c", list[0].Name)
	require.Equal(t, "a", list[2].Name)
}

func TestStoreMetrics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.Asset{Name: "a", Type: "Database", SensitivityLevel: "HIGH"}))
	require.NoError(t, s.Create(ctx, &models.Asset{Name: "b", Type: "Database", SensitivityLevel: "LOW"}))
	require.NoError(t, s.Create(ctx, &models.Asset{Name: "c", Type: "Report"}))

	m, err := s.Metrics(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), m.TotalAssets)
	require.Equal(t, int64(2), m.AssetTypes)
	require.Equal(t, int64(1), m.HighSensitivityAssets)
}

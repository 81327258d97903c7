package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/internal/storage"
)

// memStore is an in-memory storage.Store.
type memStore struct {
	data    map[string][]domain.Flyer
	saveErr error
	saves   int
}

func (m *memStore) Load(_ context.Context, id string) []domain.Flyer { return m.data[id] }
func (m *memStore) Save(_ context.Context, id string, flyers []domain.Flyer) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.data == nil {
		m.data = map[string][]domain.Flyer{}
	}
	m.data[id] = flyers
	return nil
}
func (m *memStore) Close() error { return nil }

func TestUpdaterPersistsReconciledIndex(t *testing.T) {
	store := &memStore{data: map[string][]domain.Flyer{
		"aldi": {flyer("A", "2025-01-01", "2025-01-07"), flyer("Z", "", "")},
	}}
	u := NewUpdater(store, nil)

	out, err := u.Update(context.Background(), "aldi", []domain.Flyer{flyer("B", "2025-01-08", "2025-01-14")})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A"}, urls(store.data["aldi"]))
	assert.Equal(t, out.Records, store.data["aldi"])
	assert.Equal(t, []string{"Z"}, out.Dropped)
}

func TestUpdaterReportsSaveFailure(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	_, err := NewUpdater(store, nil).Update(context.Background(), "aldi", nil)
	assert.ErrorContains(t, err, "disk full")
}

func TestUpdaterAgainstJSONStore(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewStore("json", storage.Options{DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	u := NewUpdater(store, nil)

	_, err = u.Update(ctx, "lidl", []domain.Flyer{flyer("A", "2025-01-01", "2025-01-07")})
	require.NoError(t, err)
	out, err := u.Update(ctx, "lidl", []domain.Flyer{flyer("A", "2025-01-02", "2025-01-08")})
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, out.Superseded)
	got := store.Load(ctx, "lidl")
	require.Len(t, got, 1)
	assert.Equal(t, "2025-01-02", got[0].ValidFrom.String())
}

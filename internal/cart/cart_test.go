package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDisplay struct {
	count, total string
}

func (d *recordingDisplay) SetCount(s string) { d.count = s }
func (d *recordingDisplay) SetTotal(s string) { d.total = s }

func TestAddSameIDTwiceIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	_, err := svc.Add(ctx, "7", "Cà phê sữa", 25000)
	require.NoError(t, err)
	items, err := svc.Add(ctx, "7", "Cà phê sữa", 25000)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "7", items[0].MenuID)
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	for _, id := range []string{"3", "1", "2", "1"} {
		_, err := svc.Add(ctx, id, "item "+id, 10000)
		require.NoError(t, err)
	}
	items, err := svc.Items(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuID)
	}
	assert.Equal(t, []string{"3", "1", "2"}, ids)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestSummaryTotals(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	_, _ = svc.Add(ctx, "1", "Cà phê đen", 20000)
	_, _ = svc.Add(ctx, "1", "Cà phê đen", 20000)
	_, _ = svc.Add(ctx, "2", "Trà sữa", 35000)
	_, _ = svc.Add(ctx, "3", "Bánh ngọt", 15500)

	d := &recordingDisplay{}
	sum, err := svc.Render(ctx, d)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Count)
	assert.InDelta(t, 20000*2+35000+15500, sum.Total, 0.0001)
	assert.Equal(t, "4", d.count)
	assert.Equal(t, "90.500 ₫", d.total)
}

func TestClearResetsDisplay(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	_, _ = svc.Add(ctx, "1", "Nước ép", 30000)
	require.NoError(t, svc.Clear(ctx))

	_, ok, _ := store.Get(ctx, StorageKey)
	assert.False(t, ok, "clear removes the key")

	d := &recordingDisplay{}
	sum, err := svc.Render(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Equal(t, "0", d.count)
	assert.Equal(t, "0 ₫", d.total)
}

func TestAddRawValidatesPrice(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	for _, raw := range []string{"abc", "", "NaN", "-5", "Inf", "12,5"} {
		_, err := svc.AddRaw(ctx, "1", "x", raw)
		assert.ErrorIs(t, err, ErrInvalidPrice, raw)
	}

	items, err := svc.AddRaw(ctx, "1", "x", " 12.5 ")
	require.NoError(t, err)
	assert.Equal(t, 12.5, items[0].MenuPrice)

	_, err = svc.AddRaw(ctx, " ", "x", "1")
	assert.ErrorIs(t, err, ErrInvalidItem)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count, "rejected adds leave the cart untouched")
}

func TestCorruptStorage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, StorageKey, "{not json"))

	_, err := NewService(store).Items(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStoredFormat(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := NewService(store).Add(ctx, "5", "Trà sữa", 35000)
	require.NoError(t, err)

	raw, ok, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"menuId":"5","menuName":"Trà sữa","menuPrice":35000,"quantity":1}]`, raw)
}

type failingStore struct{ *MemoryStore }

func (f *failingStore) Set(context.Context, string, string) error { return errors.New("quota exceeded") }

func TestSaveErrorPropagates(t *testing.T) {
	svc := NewService(&failingStore{MemoryStore: NewMemoryStore()})
	_, err := svc.Add(context.Background(), "1", "x", 1)
	assert.ErrorContains(t, err, "quota exceeded")
}

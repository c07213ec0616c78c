package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-shop/internal/cart"
	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/frontend/dom"
	"coffee-shop/internal/frontend/toast"
)

type display struct{ count, total string }

func (d *display) SetCount(s string) { d.count = s }
func (d *display) SetTotal(s string) { d.total = s }

type updaterStub struct {
	tableID, status string
	err             error
}

func (u *updaterStub) Update(_ context.Context, tableID, status string) error {
	u.tableID, u.status = tableID, status
	return u.err
}

func newApp(conf Confirmer) (*App, *display, *toast.Center, *updaterStub) {
	d := &display{}
	c := toast.NewCenter()
	u := &updaterStub{}
	return New(cart.NewService(cart.NewMemoryStore()), d, c, u, conf, logger.Nop()), d, c, u
}

func TestAddToCartUpdatesDisplayAndToasts(t *testing.T) {
	ctx := context.Background()
	a, d, c, _ := newApp(nil)

	require.NoError(t, a.AddToCart(ctx, "1", "Cà phê đen", 20000))
	require.NoError(t, a.AddToCart(ctx, "1", "Cà phê đen", 20000))

	assert.Equal(t, "2", d.count)
	assert.Equal(t, "40.000 ₫", d.total)

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, AddedMessage, active[1].Message)
	assert.Equal(t, toast.Success, active[1].Kind)
}

func TestClearCartResetsDisplay(t *testing.T) {
	ctx := context.Background()
	a, d, c, _ := newApp(nil)

	require.NoError(t, a.AddToCart(ctx, "1", "Trà sữa", 35000))
	require.NoError(t, a.ClearCart(ctx))

	assert.Equal(t, "0", d.count)
	assert.Equal(t, "0 ₫", d.total)
	last := c.Active()[len(c.Active())-1]
	assert.Equal(t, ClearedMessage, last.Message)
	assert.Equal(t, toast.Info, last.Kind)
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	a, d, _, u := newApp(nil)

	require.NoError(t, a.Dispatch(ctx, dom.Binding{Action: "add-to-cart", Data: map[string]string{
		"data-menu-id": "9", "data-menu-name": "Bạc xỉu", "data-menu-price": "29000",
	}}))
	assert.Equal(t, "29.000 ₫", d.total)

	require.NoError(t, a.Dispatch(ctx, dom.Binding{Action: "update-status", Data: map[string]string{
		"data-table-id": "4", "data-status": "Reserved",
	}}))
	assert.Equal(t, "4", u.tableID)
	assert.Equal(t, "Reserved", u.status)

	err := a.Dispatch(ctx, dom.Binding{Action: "add-to-cart", Data: map[string]string{
		"data-menu-id": "9", "data-menu-price": "abc",
	}})
	assert.True(t, errors.Is(err, cart.ErrInvalidPrice))

	err = a.Dispatch(ctx, dom.Binding{Action: "checkout"})
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestConfirmDeleteDefaultMessage(t *testing.T) {
	var asked string
	a, _, _, _ := newApp(ConfirmerFunc(func(m string) bool { asked = m; return true }))

	assert.True(t, a.ConfirmDelete(""))
	assert.Equal(t, DefaultConfirmText, asked)

	assert.True(t, a.ConfirmDelete("Xóa bàn 3?"))
	assert.Equal(t, "Xóa bàn 3?", asked)

	noConf, _, _, _ := newApp(nil)
	assert.False(t, noConf.ConfirmDelete(""))
}

func TestLoadingRoundTrip(t *testing.T) {
	a, _, _, _ := newApp(nil)
	b := &Button{Label: "Lưu"}

	a.ShowLoading(b)
	assert.True(t, b.Disabled)
	assert.Equal(t, LoadingLabel, b.Label)

	a.ShowLoading(b)
	a.HideLoading(b)
	assert.False(t, b.Disabled)
	assert.Equal(t, "Lưu", b.Label)
}

func TestFormatters(t *testing.T) {
	a, _, _, _ := newApp(nil)
	assert.Equal(t, "1.200.000 ₫", a.FormatCurrency(1200000))
	assert.Equal(t, "5/3/2024", a.FormatDate(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
}

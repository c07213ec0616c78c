// Package app is the explicit handle over the shop's page behaviours: cart,
// toasts, status updates and the small formatting helpers.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coffee-shop/internal/cart"
	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/format"
	"coffee-shop/internal/frontend/dom"
	"coffee-shop/internal/frontend/toast"
)

const (
	AddedMessage       = "Đã thêm vào giỏ hàng!"
	ClearedMessage     = "Đã xóa giỏ hàng!"
	DefaultConfirmText = "Bạn có chắc chắn muốn xóa?"
	LoadingLabel       = "Đang xử lý..."
	addToCartAction    = "add-to-cart"
	clearCartAction    = "clear-cart"
	updateStatusAction = "update-status"
)

var ErrUnknownAction = errors.New("unknown action")

// StatusUpdater is satisfied by statusclient.Updater.
type StatusUpdater interface {
	Update(ctx context.Context, tableID, status string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

type ConfirmerFunc func(string) bool

func (f ConfirmerFunc) Confirm(m string) bool { return f(m) }

// Button is the loading-state view of a clickable control.
type Button struct {
	Disabled bool
	Label    string
	original string
}

type App struct {
	Cart      *cart.Service
	Display   cart.Display
	Toasts    toast.Notifier
	Status    StatusUpdater
	Confirmer Confirmer
	lg        *logger.Logger
}

func New(c *cart.Service, d cart.Display, n toast.Notifier, s StatusUpdater, conf Confirmer, lg *logger.Logger) *App {
	return &App{Cart: c, Display: d, Toasts: n, Status: s, Confirmer: conf, lg: lg}
}

// AddToCart merges the item into the cart, refreshes the display and
// shows the success toast.
func (a *App) AddToCart(ctx context.Context, id, name string, price float64) error {
	if _, err := a.Cart.Add(ctx, id, name, price); err != nil {
		return err
	}
	if _, err := a.UpdateCartDisplay(ctx); err != nil {
		return err
	}
	a.ShowToast(AddedMessage, toast.Success)
	return nil
}

func (a *App) ClearCart(ctx context.Context) error {
	if err := a.Cart.Clear(ctx); err != nil {
		return err
	}
	if _, err := a.UpdateCartDisplay(ctx); err != nil {
		return err
	}
	a.ShowToast(ClearedMessage, toast.Info)
	return nil
}

// UpdateCartDisplay writes count and total into the display, if any.
func (a *App) UpdateCartDisplay(ctx context.Context) (cart.Summary, error) {
	if a.Display == nil {
		return a.Cart.Summary(ctx)
	}
	return a.Cart.Render(ctx, a.Display)
}

func (a *App) UpdateTableStatus(ctx context.Context, tableID, status string) error {
	if a.Status == nil {
		return errors.New("no status updater configured")
	}
	return a.Status.Update(ctx, tableID, status)
}

func (a *App) FormatCurrency(amount float64) string { return format.Currency(amount) }

func (a *App) FormatDate(t time.Time) string { return format.Date(t) }

func (a *App) ShowToast(message string, kind toast.Kind) {
	if a.Toasts == nil {
		return
	}
	if kind == "" {
		kind = toast.Info
	}
	a.Toasts.Show(message, kind)
}

// ConfirmDelete asks for confirmation; an empty message uses the default text.
// Without a confirmer nothing is deleted.
func (a *App) ConfirmDelete(message string) bool {
	if message == "" {
		message = DefaultConfirmText
	}
	if a.Confirmer == nil {
		return false
	}
	return a.Confirmer.Confirm(message)
}

func (a *App) ShowLoading(b *Button) {
	if b.Disabled {
		return
	}
	b.original = b.Label
	b.Disabled = true
	b.Label = LoadingLabel
}

func (a *App) HideLoading(b *Button) {
	if !b.Disabled {
		return
	}
	b.Disabled = false
	b.Label = b.original
}

// Dispatch runs the action behind a bound element.
func (a *App) Dispatch(ctx context.Context, b dom.Binding) error {
	switch b.Action {
	case addToCartAction:
		price, err := cart.ParsePrice(b.Data["data-menu-price"])
		if err != nil {
			return err
		}
		return a.AddToCart(ctx, b.Data["data-menu-id"], b.Data["data-menu-name"], price)
	case clearCartAction:
		return a.ClearCart(ctx)
	case updateStatusAction:
		return a.UpdateTableStatus(ctx, b.Data["data-table-id"], b.Data["data-status"])
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, b.Action)
	}
}

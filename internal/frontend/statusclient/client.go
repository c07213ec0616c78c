// Package statusclient posts table status changes to the shop service and
// reports the outcome through a toast.
package statusclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/domain"
	"coffee-shop/internal/frontend/toast"
)

const (
	SuccessMessage = "Cập nhật trạng thái bàn thành công!"
	FailureMessage = "Có lỗi xảy ra!"

	DefaultReloadDelay = time.Second
)

var ErrRejected = errors.New("status update rejected")

// Reloader refreshes whatever shows the table list.
type Reloader interface {
	Reload()
}

type ReloaderFunc func()

func (f ReloaderFunc) Reload() { f() }

type Updater struct {
	BaseURL     string
	HTTPClient  *http.Client
	Notifier    toast.Notifier
	Reloader    Reloader
	ReloadDelay time.Duration
	Logger      *logger.Logger
}

func New(baseURL string, n toast.Notifier, r Reloader, lg *logger.Logger) *Updater {
	return &Updater{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTPClient:  http.DefaultClient,
		Notifier:    n,
		Reloader:    r,
		ReloadDelay: DefaultReloadDelay,
		Logger:      lg,
	}
}

// Update sends one POST /tables/{id}/status. On success it shows the success
// toast and schedules a reload; on any failure it shows the error toast and
// returns the error. It never retries.
func (u *Updater) Update(ctx context.Context, tableID, status string) error {
	err := u.post(ctx, tableID, status)
	if err != nil {
		u.Logger.Error("table_status_update_failed", err, map[string]any{"table_id": tableID, "status": status})
		u.notify(FailureMessage, toast.Error)
		return err
	}

	u.Logger.Info("table_status_updated", map[string]any{"table_id": tableID, "status": status})
	u.notify(SuccessMessage, toast.Success)
	if u.Reloader != nil {
		delay := u.ReloadDelay
		if delay <= 0 {
			delay = DefaultReloadDelay
		}
		time.AfterFunc(delay, u.Reloader.Reload)
	}
	return nil
}

func (u *Updater) post(ctx context.Context, tableID, status string) error {
	body, err := json.Marshal(domain.UpdateStatusRequest{Status: status})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/tables/%s/status", u.BaseURL, url.PathEscape(tableID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client().Do(req)
	if err != nil {
		return fmt.Errorf("post status: %w", err)
	}
	defer resp.Body.Close()

	var out domain.UpdateStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response (http %d): %w", resp.StatusCode, err)
	}
	if !out.Success {
		if out.Message != "" {
			return fmt.Errorf("%w: %s", ErrRejected, out.Message)
		}
		return ErrRejected
	}
	return nil
}

// Tables fetches GET /api/tables, the list a reload shows.
func (u *Updater) Tables(ctx context.Context) ([]domain.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.BaseURL+"/api/tables", nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list tables: http %d", resp.StatusCode)
	}
	var out []domain.Table
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	return out, nil
}

func (u *Updater) client() *http.Client {
	if u.HTTPClient == nil {
		return http.DefaultClient
	}
	return u.HTTPClient
}

func (u *Updater) notify(msg string, kind toast.Kind) {
	if u.Notifier != nil {
		u.Notifier.Show(msg, kind)
	}
}

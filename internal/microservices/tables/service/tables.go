package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/common/mq"
	"coffee-shop/internal/domain"
	"coffee-shop/internal/microservices/tables/repository"
)

var ErrInvalidTableID = errors.New("invalid table id")

// Publisher is satisfied by *mq.Client.
type Publisher interface {
	Publish(ctx context.Context, exchange, key, correlationID string, body []byte, headers amqp.Table) error
}

type TablesServiceInterface interface {
	UpdateStatus(ctx context.Context, id int, status, changedBy string) (domain.TableStatusEvent, error)
	List(ctx context.Context) ([]domain.Table, error)
	Get(ctx context.Context, id int) (domain.Table, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Table, error)
	Stats(ctx context.Context) (domain.TableStats, error)
	History(ctx context.Context, id, limit, offset int) ([]domain.StatusChange, error)
}

type TablesService struct {
	repo repository.TablesRepositoryInterface
	pub  Publisher
	lg   *logger.Logger

	PublishTimeout time.Duration
}

func NewTablesService(repo repository.TablesRepositoryInterface, pub Publisher, lg *logger.Logger) *TablesService {
	if lg == nil {
		lg = logger.Nop()
	}
	return &TablesService{repo: repo, pub: pub, lg: lg, PublishTimeout: 5 * time.Second}
}

// UpdateStatus commits the change and then announces it on the tables exchange.
// A failed publish is logged; the committed change stands.
func (s *TablesService) UpdateStatus(ctx context.Context, id int, status, changedBy string) (domain.TableStatusEvent, error) {
	if id <= 0 {
		return domain.TableStatusEvent{}, fmt.Errorf("%w: %d", ErrInvalidTableID, id)
	}
	st, err := domain.ParseTableStatus(status)
	if err != nil {
		return domain.TableStatusEvent{}, fmt.Errorf("%w: %q", err, status)
	}
	if changedBy == "" {
		changedBy = "shop-service"
	}

	old, err := s.repo.UpdateStatusTx(ctx, id, st, changedBy)
	if err != nil {
		return domain.TableStatusEvent{}, err
	}

	ev := domain.TableStatusEvent{
		TableID:   id,
		OldStatus: old,
		NewStatus: st,
		ChangedBy: changedBy,
		Timestamp: time.Now().UTC(),
	}
	s.lg.Info("table_status_updated", map[string]any{
		"table_id": id, "old_status": old, "new_status": st, "changed_by": changedBy,
	})

	if err := s.publish(ctx, ev); err != nil {
		s.lg.Error("table_status_publish_failed", err, map[string]any{"table_id": id})
	}
	return ev, nil
}

func (s *TablesService) publish(ctx context.Context, ev domain.TableStatusEvent) error {
	if s.pub == nil {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(ctx, s.PublishTimeout)
	defer cancel()
	return s.pub.Publish(pctx, mq.TablesExchange, "", strconv.Itoa(ev.TableID), body, amqp.Table{
		"x-source": "shop-service",
	})
}

func (s *TablesService) List(ctx context.Context) ([]domain.Table, error) {
	return s.repo.List(ctx)
}

func (s *TablesService) Get(ctx context.Context, id int) (domain.Table, error) {
	return s.repo.Get(ctx, id)
}

func (s *TablesService) ListByStatus(ctx context.Context, status string) ([]domain.Table, error) {
	st, err := domain.ParseTableStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, status)
	}
	return s.repo.ListByStatus(ctx, st)
}

func (s *TablesService) Stats(ctx context.Context) (domain.TableStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return domain.TableStats{}, err
	}
	return domain.TableStats{
		Available: counts[domain.StatusAvailable],
		Occupied:  counts[domain.StatusOccupied],
		Reserved:  counts[domain.StatusReserved],
	}, nil
}

// History pages through the status log, oldest first. Limit is clamped to 1..200.
func (s *TablesService) History(ctx context.Context, id, limit, offset int) ([]domain.StatusChange, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTableID, id)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = 50
	case limit > 200:
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.History(ctx, id, limit, offset)
}

package notificator

import (
	"context"
	"fmt"

	"coffee-shop/internal/common/config"
	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/common/mq"
	"coffee-shop/internal/microservices/notificator/service"
)

func Run(ctx context.Context, cfg config.App, lg *logger.Logger, sink func(string)) error {
	rmq, err := mq.Dial(cfg.Rabbit.URL(), cfg.Rabbit.UseTLS)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareAll(); err != nil {
		return err
	}

	svc := service.NewNotificatorService(rmq, mq.NotificationsQueue, lg)
	svc.Sink = sink
	return svc.Run(ctx)
}

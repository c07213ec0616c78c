package handlers

import (
	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/microservices/tables/service"
)

type Handler struct {
	TablesHandler *TablesHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		TablesHandler: NewTablesHandler(s.TablesService, lg),
	}
}

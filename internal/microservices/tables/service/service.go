package service

import (
	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/microservices/tables/repository"
)

type Service struct {
	TablesService TablesServiceInterface
}

func New(repo repository.Repository, pub Publisher, lg *logger.Logger) *Service {
	return &Service{
		TablesService: NewTablesService(repo.TablesRepo, pub, lg),
	}
}

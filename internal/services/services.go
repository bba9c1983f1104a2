package services

import (
	"restaurant_service/internal/auth"
	"restaurant_service/internal/events"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/repository"
)

// Services bundles every service built over one store.
type Services struct {
	Auth       AuthService
	Users      UserService
	Tables     TableService
	Menu       MenuService
	Orders     OrderService
	TableLinks TableOrderService
	History    HistoryService
}

func New(store *repository.Store, issuer *auth.Issuer, revoker auth.Revoker, publisher events.Publisher, log *logger.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(store, issuer, revoker),
		Users:      NewUserService(store),
		Tables:     NewTableService(store),
		Menu:       NewMenuService(store),
		Orders:     NewOrderService(store, publisher, log),
		TableLinks: NewTableOrderService(store),
		History:    NewHistoryService(store),
	}
}

package services

import "restaurant_service/internal/models"

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// canAccessUser allows admins everything and other users only themselves.
func (a Actor) canAccessUser(userID uint) bool {
	return a.IsAdmin() || a.UserID == userID
}

package auth

import (
	"gorm.io/gorm"
)

// Service provides authentication functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

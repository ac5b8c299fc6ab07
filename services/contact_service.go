package services

import (
	"gorm.io/gorm"

	"manthokha-backend/models"
)

type ContactService struct {
	*Store[models.ContactSubmission]
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{Store: NewStore[models.ContactSubmission](db, "contact submission", "submitted_at", true)}
}

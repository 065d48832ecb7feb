package store

import (
	"gorm.io/gorm"

	"tracknship-api/models"
)

type PaymentStore struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(payment *models.Payment) error {
	return s.db.Create(payment).Error
}

func (s *PaymentStore) ByCustomer(email string) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("payer_email = ?", email).
		Order("created_at desc").
		Find(&payments).Error
	return payments, err
}

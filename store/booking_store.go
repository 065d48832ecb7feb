package store

import (
	"gorm.io/gorm"

	"tracknship-api/models"
)

// BookingStore wraps all parcel-booking access behind an injected DB handle.
type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

func (s *BookingStore) Create(booking *models.Booking) error {
	return s.db.Create(booking).Error
}

func (s *BookingStore) ByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingStore) ByCustomer(email string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("customer_email = ?", email).
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (s *BookingStore) ByDeliveryMan(email string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("delivery_man_email = ?", email).
		Order("updated_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (s *BookingStore) All(status string) ([]models.Booking, error) {
	var bookings []models.Booking
	query := s.db
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at desc").Find(&bookings).Error
	return bookings, err
}

// TransitionStatus performs the conditional status write: the update matches
// only while the booking still holds the expected current status, so of two
// racing callers exactly one observes matched = true. Extra assignment
// fields ride along in the same statement.
func (s *BookingStore) TransitionStatus(id uint, from, to models.BookingStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// UpdateFieldsIfPending overwrites editable fields while the booking is
// still unassigned and owned by the caller.
func (s *BookingStore) UpdateFieldsIfPending(id uint, owner string, fields map[string]interface{}) (bool, error) {
	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND customer_email = ? AND status = ?", id, owner, models.StatusPending).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

// DeleteIfPending hard-deletes an unassigned booking owned by the caller.
func (s *BookingStore) DeleteIfPending(id uint, owner string) (bool, error) {
	res := s.db.Where("id = ? AND customer_email = ? AND status = ?", id, owner, models.StatusPending).
		Delete(&models.Booking{})
	return res.RowsAffected > 0, res.Error
}

// CountDelivered recomputes a delivery man's delivered total from bookings.
func (s *BookingStore) CountDelivered(email string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Booking{}).
		Where("delivery_man_email = ? AND status = ?", email, models.StatusDelivered).
		Count(&count).Error
	return count, err
}

func (s *BookingStore) MarkPaid(id uint) (bool, error) {
	res := s.db.Model(&models.Booking{}).
		Where("id = ?", id).
		Update("payment_status", "paid")
	return res.RowsAffected > 0, res.Error
}

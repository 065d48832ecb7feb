package store

import (
	"gorm.io/gorm"

	"tracknship-api/models"
)

type ReviewStore struct {
	db *gorm.DB
}

func NewReviewStore(db *gorm.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

func (s *ReviewStore) Create(review *models.Review) error {
	return s.db.Create(review).Error
}

func (s *ReviewStore) ByBooking(bookingID uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.Where("booking_id = ?", bookingID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewStore) ByDeliveryMan(email string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("delivery_man_email = ?", email).
		Order("created_at desc").
		Find(&reviews).Error
	return reviews, err
}

// AvgRating returns the mean rating for a delivery man, 0 when no reviews.
func (s *ReviewStore) AvgRating(email string) (float64, error) {
	var avg float64
	err := s.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("delivery_man_email = ?", email).
		Scan(&avg).Error
	return avg, err
}

package store

import (
	"gorm.io/gorm"

	"tracknship-api/models"
)

// UserStore wraps all user-collection access behind an injected DB handle.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertByEmail creates the user on first login and returns the existing
// record otherwise. An existing role is never downgraded here.
func (s *UserStore) UpsertByEmail(email, name string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	user = models.User{
		Name:  name,
		Email: email,
		Role:  models.RoleCustomer,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *UserStore) ByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := s.db.Where("role = ?", role).Find(&users).Error
	return users, err
}

func (s *UserStore) All(role string) ([]models.User, error) {
	var users []models.User
	query := s.db
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Find(&users).Error
	return users, err
}

// UpdateRole changes a user's role. Granting the deliveryman role also
// approves any pending status request.
func (s *UserStore) UpdateRole(email string, role models.UserRole) (int64, error) {
	updates := map[string]interface{}{"role": role}
	if role == models.RoleDeliveryMan {
		updates["status"] = models.UserStatusApproved
	}
	res := s.db.Model(&models.User{}).Where("email = ?", email).Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *UserStore) UpdateStatus(email string, status models.UserStatus) (int64, error) {
	res := s.db.Model(&models.User{}).Where("email = ?", email).Update("status", status)
	return res.RowsAffected, res.Error
}

// AdjustDeliveredCount applies an atomic in-place increment to the user's
// delivered-parcel counter. Single statement, no read-modify-write.
func (s *UserStore) AdjustDeliveredCount(email string, delta int) error {
	return s.db.Model(&models.User{}).
		Where("email = ?", email).
		UpdateColumn("delivered_count", gorm.Expr("delivered_count + ?", delta)).Error
}

// RecountDelivered recomputes the counter from booking records. This is the
// reconciliation primitive; nothing calls it automatically.
func (s *UserStore) RecountDelivered(email string) error {
	sub := s.db.Model(&models.Booking{}).
		Select("count(*)").
		Where("delivery_man_email = ? AND status = ?", email, models.StatusDelivered)
	return s.db.Model(&models.User{}).
		Where("email = ?", email).
		UpdateColumn("delivered_count", sub).Error
}

package repository

import (
	"github.com/ecavus/techsupport-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{
		db: db,
	}
}

// CreateIfNotExists inserts the order unless one with the same
// stripe_checkout_id exists, then returns the stored row either way.
func (r *GormOrderRepository) CreateIfNotExists(order *models.Order) (bool, *models.Order, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_checkout_id"}},
		DoNothing: true,
	}).Create(order)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.Order
	if err := r.db.Where("stripe_checkout_id = ?", order.StripeCheckoutID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

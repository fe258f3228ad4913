package repository

import (
	"github.com/ecavus/techsupport-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{
		db: db,
	}
}

func (r *GormCustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("email = ?", email).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetOrCreateByEmail inserts the customer unless the email is already
// taken, then reads back whichever row won. The unique index on email
// keeps this race-free under concurrent deliveries.
func (r *GormCustomerRepository) GetOrCreateByEmail(email, fullName string) (*models.Customer, error) {
	customer := models.Customer{Email: email, FullName: fullName}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&customer).Error; err != nil {
		return nil, err
	}

	var stored models.Customer
	if err := r.db.Where("email = ?", email).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

func (r *GormCustomerRepository) GetByStripeCustomerID(stripeCustomerID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.
		Joins("JOIN orders ON orders.customer_id = customers.id").
		Where("orders.stripe_customer_id = ?", stripeCustomerID).
		Order("orders.created_at DESC").
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

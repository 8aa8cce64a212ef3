package models

import (
	"context"
	"time"

	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
)

// Customer is an optional reference on orders. Orders denormalize the name
// at commit time, so deleting a customer never rewrites sales history.
type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	UserId    string    `gorm:"index;size:36;not null" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Email     string    `gorm:"size:100" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (input *NewCustomer) validate(ctx context.Context, userId string) error {
	if err := utils.ValidateUnique[Customer](ctx, userId, "name", input.Name, 0); err != nil {
		return err
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewInvalidInput("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.DefaultCountryCode()); err != nil {
			return utils.NewInvalidInput("invalid phone number")
		}
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	customer := Customer{
		UserId: userId,
		Name:   input.Name,
		Phone:  input.Phone,
		Email:  input.Email,
	}
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetAllCustomers(ctx context.Context) ([]*Customer, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}
	return utils.FetchAllModels[Customer](ctx, userId)
}

func DeleteCustomer(ctx context.Context, id int) error {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return utils.NewUnauthorized("user id is required")
	}

	result := db.WithContext(ctx).Where("user_id = ?", userId).Delete(&Customer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFound("customer not found")
	}
	return nil
}

package models

import (
	"context"
	"time"

	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
)

type Supplier struct {
	ID        int       `gorm:"primary_key" json:"id"`
	UserId    string    `gorm:"index;size:36;not null" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (input *NewSupplier) validate(ctx context.Context, userId string) error {
	if err := utils.ValidateUnique[Supplier](ctx, userId, "name", input.Name, 0); err != nil {
		return err
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.DefaultCountryCode()); err != nil {
			return utils.NewInvalidInput("invalid phone number")
		}
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	supplier := Supplier{
		UserId: userId,
		Name:   input.Name,
		Phone:  input.Phone,
	}
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func GetAllSuppliers(ctx context.Context) ([]*Supplier, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}
	return utils.FetchAllModels[Supplier](ctx, userId)
}

func DeleteSupplier(ctx context.Context, id int) error {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return utils.NewUnauthorized("user id is required")
	}

	result := db.WithContext(ctx).Where("user_id = ?", userId).Delete(&Supplier{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFound("supplier not found")
	}
	return nil
}

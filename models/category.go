package models

import (
	"context"
	"time"

	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
)

type Category struct {
	ID        int       `gorm:"primary_key" json:"id"`
	UserId    string    `gorm:"index;size:36;not null" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name string `json:"name" binding:"required"`
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	if err := utils.ValidateUnique[Category](ctx, userId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	category := Category{
		UserId: userId,
		Name:   input.Name,
	}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func GetAllCategories(ctx context.Context) ([]*Category, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}
	return utils.FetchAllModels[Category](ctx, userId)
}

func DeleteCategory(ctx context.Context, id int) error {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return utils.NewUnauthorized("user id is required")
	}

	result := db.WithContext(ctx).Where("user_id = ?", userId).Delete(&Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFound("category not found")
	}
	return nil
}

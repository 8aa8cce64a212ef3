package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is the business account every other record is scoped to. Its uuid id
// is the owner identifier threaded through request contexts.
type User struct {
	ID           string    `gorm:"primary_key;size:36" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	Username     string    `gorm:"size:100;not null" json:"username"`
	BusinessName string    `gorm:"size:100;not null" json:"business_name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	BusinessName string `json:"business_name" binding:"required"`
}

type UpdateProfileInput struct {
	Username     string `json:"username"`
	BusinessName string `json:"business_name"`
}

type LoginInfo struct {
	AccessToken  string `json:"access_token"`
	Username     string `json:"username"`
	BusinessName string `json:"business_name"`
}

func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if !utils.IsValidEmail(input.Email) {
		return nil, utils.NewInvalidInput("invalid email address")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewInvalidInput("email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Password:     string(hashed),
		Username:     strings.Split(input.Email, "@")[0],
		BusinessName: input.BusinessName,
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	user := User{}
	err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error
	if err != nil {
		return nil, utils.NewUnauthorized("invalid email or password")
	}

	err = utils.ComparePassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, utils.NewUnauthorized("invalid email or password")
	} else if err != nil {
		return nil, err
	}

	token, err := utils.JwtGenerate(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginInfo{
		AccessToken:  token,
		Username:     user.Username,
		BusinessName: user.BusinessName,
	}, nil
}

func GetProfile(ctx context.Context) (*User, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	var user User
	if err := db.WithContext(ctx).Where("id = ?", userId).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*User, error) {
	db := config.GetDB()

	user, err := GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.BusinessName != "" {
		user.BusinessName = input.BusinessName
	}

	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

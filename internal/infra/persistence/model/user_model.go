package model

import (
	"time"

	"remu/internal/domain/entity"
)

// UserModel mirrors the 'users' table. The primary key is a bigserial
// assigned by PostgreSQL on insert.
type UserModel struct {
	UserID       int64   `gorm:"column:user_id;primaryKey;autoIncrement"`
	Nickname     string  `gorm:"type:varchar(100);unique;not null"`
	Email        string  `gorm:"type:varchar(255);unique;not null"`
	Password     string  `gorm:"type:varchar(255);not null"`
	Salt         string  `gorm:"type:varchar(255);not null"`
	RefreshToken *string `gorm:"column:refresh_token;type:varchar(512)"`
	CreatedAt    time.Time

	Reviews []ReviewModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the persistence model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:             m.UserID,
		Email:          m.Email,
		Nickname:       m.Nickname,
		PasswordDigest: m.Password,
		Salt:           m.Salt,
		RefreshToken:   m.RefreshToken,
		CreatedAt:      m.CreatedAt,
	}
}

// UserModelFromEntity converts a domain entity to its persistence model.
func UserModelFromEntity(user *entity.User) *UserModel {
	return &UserModel{
		UserID:       user.ID,
		Nickname:     user.Nickname,
		Email:        user.Email,
		Password:     user.PasswordDigest,
		Salt:         user.Salt,
		RefreshToken: user.RefreshToken,
		CreatedAt:    user.CreatedAt,
	}
}

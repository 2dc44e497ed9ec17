// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"remu/internal/domain/entity"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/domain/repository"
	"remu/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return userM.ToEntity(), nil
}

// FindByID retrieves a single user by their primary key.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", id).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return userM.ToEntity(), nil
}

// ExistsByEmail reports whether another user already owns the given email.
// excludeID lets profile updates skip the caller's own row; pass 0 to check all rows.
func (repo *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	query := repo.db.WithContext(ctx).Model(&model.UserModel{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("user_id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check email existence")
	}

	return count > 0, nil
}

// ExistsByNickname reports whether another user already owns the given nickname.
func (repo *userRepository) ExistsByNickname(ctx context.Context, nickname string, excludeID int64) (bool, error) {
	var count int64
	query := repo.db.WithContext(ctx).Model(&model.UserModel{}).Where("nickname = ?", nickname)
	if excludeID != 0 {
		query = query.Where("user_id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check nickname existence")
	}

	return count > 0, nil
}

// Create persists a new user and writes the generated ID and timestamp back into the entity.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := model.UserModelFromEntity(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			if violatedColumn(err, "nickname") {
				return domainerrors.ErrNicknameTaken
			}

			return domainerrors.ErrEmailTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.UserID
	user.CreatedAt = userM.CreatedAt

	return nil
}

// UpdateRefreshToken stores the user's current refresh token. A nil token clears it.
func (repo *userRepository) UpdateRefreshToken(ctx context.Context, email string, token *string) error {
	result := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("email = ?", email).
		Update("refresh_token", token)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update refresh token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the stored digest and salt together.
// They derive from one another, so a partial write would lock the user out.
func (repo *userRepository) UpdatePassword(ctx context.Context, email, digest, salt string) error {
	result := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("email = ?", email).
		Updates(map[string]any{
			"password": digest,
			"salt":     salt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update password")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// UpdateProfile rewrites the user's email and nickname.
func (repo *userRepository) UpdateProfile(ctx context.Context, id int64, email, nickname string) error {
	result := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("user_id = ?", id).
		Updates(map[string]any{
			"email":    email,
			"nickname": nickname,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			if violatedColumn(result.Error, "nickname") {
				return domainerrors.ErrNicknameTaken
			}

			return domainerrors.ErrEmailTaken
		}

		return errors.Wrap(result.Error, "failed to update profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// DeleteByEmail removes the user row. Review rows are deleted separately
// inside the same transaction by the caller.
func (repo *userRepository) DeleteByEmail(ctx context.Context, email string) error {
	result := repo.db.WithContext(ctx).Where("email = ?", email).Delete(&model.UserModel{})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.NewDatabaseExecuteError(result.Error, "user still has dependent rows")
		}

		return errors.Wrap(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/validation"

	"gorm.io/gorm"
)

// CreateUser registers user. Email and username must be unused; the unique
// indexes settle races between concurrent sign-ups.
func CreateUser(ctx context.Context, db *gorm.DB, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Username = strings.TrimSpace(user.Username)
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken []models.User
		err := tx.Select("email", "username").
			Where("email = ? OR username = ?", user.Email, user.Username).
			Find(&taken).Error
		if err != nil {
			return fmt.Errorf("check user uniqueness: %w", err)
		}
		for _, other := range taken {
			if other.Email == user.Email {
				return apperr.Validation("email", "A user with that email already exists")
			}
			if other.Username == user.Username {
				return apperr.Validation("username", "A user with that username already exists")
			}
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Validation("email", "A user with that email or username already exists")
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func GetUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "User not found")
	}
	return &user, nil
}

// GetUserByEmail looks a user up by login key, case-insensitively.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return &user, nil
}

// ListUsers returns one page of users ordered by id.
func ListUsers(ctx context.Context, db *gorm.DB, page Page) ([]models.User, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []models.User
	if err := page.apply(db.WithContext(ctx)).Order("id").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// UpdateAvatar stores a new avatar reference and returns the previous one.
func UpdateAvatar(ctx context.Context, db *gorm.DB, userID uint, ref string) (string, error) {
	var previous string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id", "avatar").First(&user, userID).Error; err != nil {
			return notFound(err, "User not found")
		}
		previous = user.Avatar
		if err := tx.Model(&user).Update("avatar", ref).Error; err != nil {
			return fmt.Errorf("update avatar: %w", err)
		}
		return nil
	})
	return previous, err
}

func UpdatePasswordHash(ctx context.Context, db *gorm.DB, userID uint, hash string) error {
	result := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if result.Error != nil {
		return fmt.Errorf("update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// Subscribe makes follower follow author.
func Subscribe(ctx context.Context, db *gorm.DB, followerID, authorID uint) (*models.User, error) {
	author, err := GetUser(ctx, db, authorID)
	if err != nil {
		return nil, err
	}
	if err := validation.Subscription(followerID, authorID); err != nil {
		return nil, err
	}
	if err := Subscriptions.Add(ctx, db, followerID, authorID); err != nil {
		return nil, err
	}
	return author, nil
}

func Unsubscribe(ctx context.Context, db *gorm.DB, followerID, authorID uint) error {
	if _, err := GetUser(ctx, db, authorID); err != nil {
		return err
	}
	return Subscriptions.Remove(ctx, db, followerID, authorID)
}

// ListSubscriptions returns one page of the authors followerID follows,
// most recently followed first.
func ListSubscriptions(ctx context.Context, db *gorm.DB, followerID uint, page Page) ([]models.User, int64, error) {
	base := db.WithContext(ctx)
	filtered := func() *gorm.DB {
		return base.Model(&models.User{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", followerID)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}
	var authors []models.User
	err := page.apply(filtered()).
		Order("subscriptions.created_at DESC").
		Order("users.id DESC").
		Find(&authors).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	return authors, total, nil
}

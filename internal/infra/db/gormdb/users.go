package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stayhub/internal/domain/user"
)

// UserRepository implements user.Repository with GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.take(ctx, "id = ?", string(id))
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.take(ctx, "email = ?", user.NormalizeEmail(email))
}

// Save upserts u. An email owned by another account is rejected.
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if u == nil || u.ID == "" {
		return user.ErrIDRequired
	}
	model := userToModel(u)
	if model.Email == "" {
		return user.ErrEmailRequired
	}
	var owner UserModel
	err := r.db.WithContext(ctx).Select("id").Where("email = ?", model.Email).Take(&owner).Error
	switch {
	case err == nil && owner.ID != model.ID:
		return user.ErrEmailAlreadyUsed
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return wrap("check user email", err)
	}
	return wrap("save user", r.db.WithContext(ctx).Save(&model).Error)
}

func (r *UserRepository) take(ctx context.Context, query string, arg any) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where(query, arg).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, wrap("load user", err)
	}
	return model.toDomain(), nil
}

var _ user.Repository = (*UserRepository)(nil)

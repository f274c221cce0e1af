package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

type Users struct {
	DB *gorm.DB
}

func (r *Users) Create(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return repo.ErrAlreadyExists
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return repo.ErrAlreadyExists
	}
	return nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Users) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Users) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

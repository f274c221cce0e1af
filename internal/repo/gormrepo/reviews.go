package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

type Reviews struct {
	DB *gorm.DB
}

func (r *Reviews) Create(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

func (r *Reviews) Get(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, notFound(err)
	}
	return &review, nil
}

func (r *Reviews) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := r.DB.WithContext(ctx).Where("book_id = ?", bookID).Order("id").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *Reviews) Delete(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

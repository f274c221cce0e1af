package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookshop/internal/models"
)

type Books struct {
	DB *gorm.DB
}

func (r *Books) Create(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *Books) Get(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, notFound(err)
	}
	return &book, nil
}

func (r *Books) List(ctx context.Context) ([]models.Book, error) {
	books := []models.Book{}
	if err := r.DB.WithContext(ctx).Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

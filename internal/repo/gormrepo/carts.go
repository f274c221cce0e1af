package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

type Carts struct {
	DB *gorm.DB
}

func (r *Carts) List(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		items = []models.CartItem{}
		return tx.Where("user_id = ?", userID).Order("id").Find(&items).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return items, nil
}

func (r *Carts) Add(ctx context.Context, userID, bookID int64) (*models.CartItem, error) {
	item := models.CartItem{UserID: userID, BookID: bookID, Quantity: 1}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Cart{UserID: userID}).Error; err != nil {
			return err
		}

		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Update("quantity", gorm.Expr("quantity + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Carts) Increase(ctx context.Context, userID, bookID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Update("quantity", gorm.Expr("quantity + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *Carts) Decrease(ctx context.Context, userID, bookID int64) (*models.CartItem, bool, error) {
	var item models.CartItem
	removed := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > 1 {
			if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			return tx.Where("id = ?", item.ID).First(&item).Error
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return nil, false, notFound(err)
	}
	return &item, removed, nil
}

func (r *Carts) Remove(ctx context.Context, userID, bookID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

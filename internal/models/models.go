package models

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Name         string `gorm:"not null"                  json:"name"`
	Image        string `json:"image"`
}

// UserInfo is the public profile of a user.
type UserInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Image: u.Image}
}

type Book struct {
	ID     int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"not null"                  json:"name"`
	Image  string  `json:"image"`
	Price  float64 `gorm:"not null"                  json:"price"`
	Author string  `gorm:"not null"                  json:"author"`
}

type Review struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Rating int    `gorm:"not null"                  json:"rating"`
	Text   string `json:"text"`
	BookID int64  `gorm:"index;not null"            json:"bookId"`
	UserID int64  `gorm:"index;not null"            json:"userId"`
}

// Cart marks that a user has started a cart, even if it is empty now.
type Cart struct {
	UserID int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
}

type CartItem struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"               json:"-"`
	UserID   int64 `gorm:"uniqueIndex:idx_user_book;not null"     json:"user_id"`
	BookID   int64 `gorm:"uniqueIndex:idx_user_book;not null"     json:"book_id"`
	Quantity int   `gorm:"not null;check:quantity > 0"            json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

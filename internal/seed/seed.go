// Package seed loads the demo catalog, accounts and reviews into a fresh store.
package seed

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/bookshop/internal/hash"
	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

const avatar = "https://i.namu.wiki/i/X1NSMaWzWMiLwz7lTOfl65kbteTqO7DXAVscpSlU3FD0yRv35Jj2UYxdUJnfIz6TfDoRPwFfuGPp5LDCowwjxQ.webp"

var Books = []models.Book{
	{Name: "Оптимизирющие компиляторы", Image: "https://cdn.litres.ru/pub/c/cover_415/71185981.webp", Price: 299.99, Author: "Константин Владимиров"},
	{Name: "Олимпиадное программирование", Image: "https://cdn.litres.ru/pub/c/cover_415/44867813.webp", Price: 199.99, Author: "Антти Лааксонен"},
	{Name: "Граф Монте-Кристо. В 2 книгах. Книга 2", Image: "https://cdn.litres.ru/pub/c/cover_415/68341772.webp", Price: 1299.99, Author: "Александр Дюма"},
	{Name: "Витя Малеев в школе и дома", Image: "https://cdn.litres.ru/pub/c/cover_415/3140845.webp", Price: 149.99, Author: "Николай Носов"},
	{Name: "Баранкин, будь человеком!", Image: "https://cdn.litres.ru/pub/c/cover_415/146229.webp", Price: 499.99, Author: "Валерий Медведев"},
	{Name: "Убийство в «Восточном экспрессе»", Image: "https://cdn.litres.ru/pub/c/cover_415/18922333.webp", Price: 79.99, Author: "Кристи Агата"},
}

type Account struct {
	Email    string
	Password string
	Name     string
	Image    string
}

var Accounts = []Account{
	{Email: "a", Password: "a", Name: "Astronomax", Image: avatar},
	{Email: "b", Password: "a", Name: "Arrias", Image: avatar},
}

// Run inserts the seed data. Passwords are hashed on the way in; reviews are
// attached to the first two books and alternate between the two accounts.
func Run(ctx context.Context, s repo.Store) error {
	books := make([]models.Book, len(Books))
	for i := range Books {
		books[i] = Books[i]
		if err := s.Books.Create(ctx, &books[i]); err != nil {
			return fmt.Errorf("seed book %q: %w", books[i].Name, err)
		}
	}

	users := make([]models.User, len(Accounts))
	for i, a := range Accounts {
		h, err := hash.HashPassword(a.Password)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", a.Email, err)
		}
		users[i] = models.User{Email: a.Email, PasswordHash: h, Name: a.Name, Image: a.Image}
		if err := s.Users.Create(ctx, &users[i]); err != nil {
			return fmt.Errorf("seed user %q: %w", a.Email, err)
		}
	}

	for _, book := range books[:2] {
		reviews := []models.Review{
			{Rating: 5, Text: "Отличная книга! Рекомендую всем.", BookID: book.ID, UserID: users[0].ID},
			{Rating: 4, Text: "Хорошая книга, но местами скучная.", BookID: book.ID, UserID: users[1].ID},
		}
		for i := range reviews {
			if err := s.Reviews.Create(ctx, &reviews[i]); err != nil {
				return fmt.Errorf("seed review: %w", err)
			}
		}
	}
	return nil
}

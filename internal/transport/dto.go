// Package transport holds the request and response bodies of the HTTP API.
package transport

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// LoginRequest is accepted as a form or as JSON.
type LoginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Image, validation.Length(0, 2048)),
		validation.Field(&r.Email, validation.Required, validation.Length(1, 254)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type SubmitReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (r SubmitReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Text, validation.Length(0, 5000)),
	)
}

type AddToCartRequest struct {
	BookID int64 `json:"book_id"`
}

func (r AddToCartRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, validation.Min(int64(1))),
	)
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

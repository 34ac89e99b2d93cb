package handler

import (
	"context"

	"github.com/avdeyev/bookhub/internal/model"
	"github.com/avdeyev/bookhub/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
}

type BorrowService interface {
	Borrow(ctx context.Context, userID int, req model.CreateBorrowRequest) (model.Borrow, error)
	Return(ctx context.Context, borrowID int) error
	ListBorrows(ctx context.Context, userID int) ([]model.Borrow, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	Login(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

var _ BookService = (*service.BookService)(nil)
var _ BorrowService = (*service.BorrowService)(nil)
var _ AuthService = (*service.AuthService)(nil)

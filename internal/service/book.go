package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/avdeyev/bookhub/internal/model"
	"github.com/avdeyev/bookhub/internal/repository"
)

type BookService struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewBookService(repo repository.Repository, log *zap.Logger) *BookService {
	return &BookService{
		log:  log.Named("book"),
		repo: repo,
	}
}

func (s *BookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *BookService) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	book, err := s.repo.CreateBook(ctx, req)
	if err != nil {
		return model.Book{}, err
	}
	s.log.Info("book created", zap.Int("id", book.ID), zap.String("title", book.Title))
	return book, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *BookService) DeleteBook(ctx context.Context, id int) error {
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.log.Info("book deleted", zap.Int("id", id))
	return nil
}

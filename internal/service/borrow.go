package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/avdeyev/bookhub/internal/errs"
	"github.com/avdeyev/bookhub/internal/events"
	"github.com/avdeyev/bookhub/internal/model"
	"github.com/avdeyev/bookhub/internal/repository"
)

// maxKeyRetries bounds re-generation after a borrow-key unique violation.
// A collision at 10 chars over a 64-symbol alphabet is vanishingly rare.
const maxKeyRetries = 3

type BorrowService struct {
	log      *zap.Logger
	repo     repository.Repository
	producer *events.Producer
	now      func() time.Time
}

func NewBorrowService(repo repository.Repository, producer *events.Producer, log *zap.Logger) *BorrowService {
	return &BorrowService{
		log:      log.Named("borrow"),
		repo:     repo,
		producer: producer,
		now:      time.Now,
	}
}

// Borrow lends one copy of a book to a user. The availability check, the
// quantity decrement and the borrow insert run in one transaction so that
// concurrent calls against the last copy cannot both succeed.
func (s *BorrowService) Borrow(ctx context.Context, userID int, req model.CreateBorrowRequest) (model.Borrow, error) {
	var borrow model.Borrow
	for attempt := 0; ; attempt++ {
		key, err := newBorrowKey()
		if err != nil {
			return model.Borrow{}, errors.Wrap(err, "borrow key")
		}

		err = s.repo.Within(ctx, func(tx repository.Tx) error {
			book, err := tx.GetBookForUpdate(ctx, req.BookID)
			if err != nil {
				return err
			}
			if book.Quantity < 1 {
				return errs.ErrNoCopies
			}
			if err := tx.SetBookQuantity(ctx, book.ID, book.Quantity-1); err != nil {
				return err
			}
			borrow, err = tx.CreateBorrow(ctx, model.Borrow{
				UserID:     userID,
				BookID:     req.BookID,
				BorrowDate: req.BorrowDate,
				ReturnDate: req.ReturnDate,
				BorrowKey:  key,
				Status:     model.StatusPending,
			})
			return err
		})
		if errors.Is(err, errs.ErrKeyConflict) && attempt < maxKeyRetries {
			s.log.Warn("borrow key collision", zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return model.Borrow{}, err
		}

		s.publish(events.TypeBorrowed, borrow)
		return borrow, nil
	}
}

// Return transitions a pending borrow to returned and restores the book
// quantity in the same transaction. Not idempotent: a second call on the
// same borrow fails with ErrAlreadyReturned. The borrow row is locked
// before the book row, always in that order.
func (s *BorrowService) Return(ctx context.Context, borrowID int) error {
	var returned model.Borrow
	err := s.repo.Within(ctx, func(tx repository.Tx) error {
		borrow, err := tx.GetBorrowForUpdate(ctx, borrowID)
		if err != nil {
			return err
		}
		if borrow.Status != model.StatusPending {
			return errs.ErrAlreadyReturned
		}
		book, err := tx.GetBookForUpdate(ctx, borrow.BookID)
		if err != nil {
			return err
		}
		if err := tx.SetBookQuantity(ctx, book.ID, book.Quantity+1); err != nil {
			return err
		}
		if err := tx.SetBorrowReturned(ctx, borrow.ID, s.now().UTC()); err != nil {
			return err
		}
		returned = borrow
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(events.TypeReturned, returned)
	return nil
}

func (s *BorrowService) ListBorrows(ctx context.Context, userID int) ([]model.Borrow, error) {
	return s.repo.ListBorrows(ctx, userID)
}

func (s *BorrowService) publish(typ events.Type, borrow model.Borrow) {
	s.producer.Publish(events.BorrowEvent{
		EventID:  uuid.NewString(),
		Type:     typ,
		BorrowID: borrow.ID,
		BookID:   borrow.BookID,
		UserID:   borrow.UserID,
		At:       s.now().UTC(),
	})
}

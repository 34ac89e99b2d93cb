package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/avdeyev/bookhub/internal/errs"
	"github.com/avdeyev/bookhub/internal/model"
)

// Tx is the transaction-scoped slice of the repository. All calls run on the
// transaction opened by Repository.Within; row locks taken by the ForUpdate
// reads are held until that transaction commits or rolls back.
type Tx interface {
	GetBookForUpdate(ctx context.Context, id int) (model.Book, error)
	SetBookQuantity(ctx context.Context, id, quantity int) error

	GetBorrowForUpdate(ctx context.Context, id int) (model.Borrow, error)
	CreateBorrow(ctx context.Context, borrow model.Borrow) (model.Borrow, error)
	SetBorrowReturned(ctx context.Context, id int, returnedAt time.Time) error

	DeleteBook(ctx context.Context, id int) error
}

type pgTx struct {
	tx *sqlx.Tx
}

var _ Tx = (*pgTx)(nil)

func (t *pgTx) GetBookForUpdate(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := t.tx.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (t *pgTx) SetBookQuantity(ctx context.Context, id, quantity int) error {
	query, args, err := qb.Update(booksTableName).
		Set("quantity", quantity).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (t *pgTx) GetBorrowForUpdate(ctx context.Context, id int) (model.Borrow, error) {
	query, args, err := qb.Select(borrowColumns...).
		From(borrowsTableName).
		Where(sq.Eq{"id": id}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Borrow{}, err
	}

	var borrow model.Borrow
	if err := t.tx.GetContext(ctx, &borrow, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Borrow{}, errs.ErrNotFound
		}
		return model.Borrow{}, err
	}
	return borrow, nil
}

func (t *pgTx) CreateBorrow(ctx context.Context, borrow model.Borrow) (model.Borrow, error) {
	query, args, err := qb.Insert(borrowsTableName).
		Columns("user_id", "book_id", "borrow_date", "return_date", "borrow_key", "status").
		Values(borrow.UserID, borrow.BookID, borrow.BorrowDate, borrow.ReturnDate,
			borrow.BorrowKey, borrow.Status).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Borrow{}, err
	}

	var created model.Borrow
	if err := t.tx.GetContext(ctx, &created, query, args...); err != nil {
		switch {
		case isPgErr(err, pgerrcode.UniqueViolation):
			return model.Borrow{}, errs.ErrKeyConflict
		case isPgErr(err, pgerrcode.ForeignKeyViolation):
			return model.Borrow{}, errs.ErrNotFound
		}
		return model.Borrow{}, err
	}
	return created, nil
}

func (t *pgTx) SetBorrowReturned(ctx context.Context, id int, returnedAt time.Time) error {
	query, args, err := qb.Update(borrowsTableName).
		Set("status", model.StatusReturned).
		Set("return_date", returnedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (t *pgTx) DeleteBook(ctx context.Context, id int) error {
	query, args, err := qb.Delete(borrowsTableName).
		Where(sq.Eq{"book_id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	query, args, err = qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

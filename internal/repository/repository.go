package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/avdeyev/bookhub/internal/errs"
	"github.com/avdeyev/bookhub/internal/model"
)

type Repository interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error

	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	GetBorrow(ctx context.Context, id int) (model.Borrow, error)
	ListBorrows(ctx context.Context, userID int) ([]model.Borrow, error)

	// Within runs fn inside a single database transaction. Every repository
	// call made through the passed Tx commits or rolls back as one unit.
	Within(ctx context.Context, fn func(tx Tx) error) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

var _ Repository = (*repository)(nil)

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName   = `users`
	booksTableName   = `books`
	borrowsTableName = `borrows`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var bookColumns = []string{
	"id", "title", "isbn", "authors", "genre", "pages", "year",
	"language", "publisher", "description", "quantity", "cover_image",
}

var borrowColumns = []string{
	"id", "user_id", "book_id", "borrow_date", "return_date", "borrow_key", "status",
}

func (r *repository) Within(ctx context.Context, fn func(tx Tx) error) error {
	txx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	// no-op once committed; releases the connection on error and panic paths
	defer func() {
		_ = txx.Rollback()
	}()

	if err := fn(&pgTx{tx: txx}); err != nil {
		return err
	}
	return txx.Commit()
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "isbn", "authors", "genre", "pages", "year",
			"language", "publisher", "description", "quantity", "cover_image").
		Values(req.Title, req.ISBN, req.Authors, req.Genre, req.Pages, req.Year,
			req.Language, req.Publisher, req.Description, req.Quantity, req.CoverImage).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	q := qb.Update(booksTableName).Where(sq.Eq{"id": id}).Suffix("returning *")

	changed := false
	set := func(col string, v interface{}) {
		q = q.Set(col, v)
		changed = true
	}
	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.ISBN != nil {
		set("isbn", *req.ISBN)
	}
	if req.Authors != nil {
		set("authors", *req.Authors)
	}
	if req.Genre != nil {
		set("genre", *req.Genre)
	}
	if req.Pages != nil {
		set("pages", *req.Pages)
	}
	if req.Year != nil {
		set("year", *req.Year)
	}
	if req.Language != nil {
		set("language", *req.Language)
	}
	if req.Publisher != nil {
		set("publisher", *req.Publisher)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Quantity != nil {
		set("quantity", *req.Quantity)
	}
	if req.CoverImage != nil {
		set("cover_image", *req.CoverImage)
	}
	if !changed {
		return r.GetBook(ctx, id)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

// DeleteBook removes the book together with its borrow history, as one
// transaction.
func (r *repository) DeleteBook(ctx context.Context, id int) error {
	return r.Within(ctx, func(tx Tx) error {
		return tx.DeleteBook(ctx, id)
	})
}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("username", "password", "is_admin", "phone").
		Values(user.Username, user.Password, user.IsAdmin, user.Phone).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		if isPgErr(err, pgerrcode.UniqueViolation) {
			return model.User{}, errs.ErrUserExists
		}
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int) (model.User, error) {
	query, args, err := qb.Select("id", "username", "password", "is_admin", "phone").
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	query, args, err := qb.Select("id", "username", "password", "is_admin", "phone").
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select("id", "username", "password", "is_admin", "phone").
		From(usersTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) GetBorrow(ctx context.Context, id int) (model.Borrow, error) {
	query, args, err := qb.Select(borrowColumns...).
		From(borrowsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Borrow{}, err
	}

	var borrow model.Borrow
	if err := r.db.GetContext(ctx, &borrow, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Borrow{}, errs.ErrNotFound
		}
		return model.Borrow{}, err
	}
	return borrow, nil
}

func (r *repository) ListBorrows(ctx context.Context, userID int) ([]model.Borrow, error) {
	query, args, err := qb.Select(borrowColumns...).
		From(borrowsTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	borrows := make([]model.Borrow, 0)
	if err := r.db.SelectContext(ctx, &borrows, query, args...); err != nil {
		return nil, err
	}
	return borrows, nil
}

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

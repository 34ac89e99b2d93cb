package service

import (
	"context"
	"sync"
	"time"

	"github.com/avdeyev/bookhub/internal/errs"
	"github.com/avdeyev/bookhub/internal/model"
	"github.com/avdeyev/bookhub/internal/repository"
)

// memRepo is an in-memory Repository fake. Within holds the mutex for the
// whole callback, emulating a serializable transaction, and restores a
// snapshot on error so failed calls leave no partial mutation behind.
type memRepo struct {
	mu           sync.Mutex
	books        map[int]model.Book
	borrows      map[int]model.Borrow
	users        map[int]model.User
	nextBookID   int
	nextBorrowID int
	nextUserID   int
}

var _ repository.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		books:        make(map[int]model.Book),
		borrows:      make(map[int]model.Borrow),
		users:        make(map[int]model.User),
		nextBookID:   1,
		nextBorrowID: 1,
		nextUserID:   1,
	}
}

func (r *memRepo) addBook(book model.Book) model.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	book.ID = r.nextBookID
	r.nextBookID++
	r.books[book.ID] = book
	return book
}

func (r *memRepo) Within(_ context.Context, fn func(tx repository.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booksSnap := make(map[int]model.Book, len(r.books))
	for k, v := range r.books {
		booksSnap[k] = v
	}
	borrowsSnap := make(map[int]model.Borrow, len(r.borrows))
	for k, v := range r.borrows {
		borrowsSnap[k] = v
	}
	nextBorrowID := r.nextBorrowID

	committed := false
	defer func() {
		if !committed {
			r.books = booksSnap
			r.borrows = borrowsSnap
			r.nextBorrowID = nextBorrowID
		}
	}()

	if err := fn(&memTx{r: r}); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *memRepo) ListBooks(context.Context) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	books := make([]model.Book, 0, len(r.books))
	for _, b := range r.books {
		books = append(books, b)
	}
	return books, nil
}

func (r *memRepo) GetBook(_ context.Context, id int) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return book, nil
}

func (r *memRepo) CreateBook(_ context.Context, req model.CreateBookRequest) (model.Book, error) {
	return r.addBook(model.Book{
		Title: req.Title, ISBN: req.ISBN, Authors: req.Authors, Genre: req.Genre,
		Pages: req.Pages, Year: req.Year, Language: req.Language,
		Publisher: req.Publisher, Description: req.Description,
		Quantity: req.Quantity, CoverImage: req.CoverImage,
	}), nil
}

func (r *memRepo) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Quantity != nil {
		book.Quantity = *req.Quantity
	}
	r.books[id] = book
	return book, nil
}

func (r *memRepo) DeleteBook(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return errs.ErrNotFound
	}
	for bid, b := range r.borrows {
		if b.BookID == id {
			delete(r.borrows, bid)
		}
	}
	delete(r.books, id)
	return nil
}

func (r *memRepo) CreateUser(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return model.User{}, errs.ErrUserExists
		}
	}
	user.ID = r.nextUserID
	r.nextUserID++
	r.users[user.ID] = user
	return user, nil
}

func (r *memRepo) GetUser(_ context.Context, id int) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return user, nil
}

func (r *memRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (r *memRepo) ListUsers(context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *memRepo) GetBorrow(_ context.Context, id int) (model.Borrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	borrow, ok := r.borrows[id]
	if !ok {
		return model.Borrow{}, errs.ErrNotFound
	}
	return borrow, nil
}

func (r *memRepo) ListBorrows(_ context.Context, userID int) ([]model.Borrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	borrows := make([]model.Borrow, 0)
	for _, b := range r.borrows {
		if b.UserID == userID {
			borrows = append(borrows, b)
		}
	}
	return borrows, nil
}

type memTx struct {
	r *memRepo
}

var _ repository.Tx = (*memTx)(nil)

func (t *memTx) GetBookForUpdate(_ context.Context, id int) (model.Book, error) {
	book, ok := t.r.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return book, nil
}

func (t *memTx) SetBookQuantity(_ context.Context, id, quantity int) error {
	book, ok := t.r.books[id]
	if !ok {
		return errs.ErrNotFound
	}
	book.Quantity = quantity
	t.r.books[id] = book
	return nil
}

func (t *memTx) GetBorrowForUpdate(_ context.Context, id int) (model.Borrow, error) {
	borrow, ok := t.r.borrows[id]
	if !ok {
		return model.Borrow{}, errs.ErrNotFound
	}
	return borrow, nil
}

func (t *memTx) CreateBorrow(_ context.Context, borrow model.Borrow) (model.Borrow, error) {
	for _, b := range t.r.borrows {
		if b.BorrowKey == borrow.BorrowKey {
			return model.Borrow{}, errs.ErrKeyConflict
		}
	}
	borrow.ID = t.r.nextBorrowID
	t.r.nextBorrowID++
	t.r.borrows[borrow.ID] = borrow
	return borrow, nil
}

func (t *memTx) SetBorrowReturned(_ context.Context, id int, returnedAt time.Time) error {
	borrow, ok := t.r.borrows[id]
	if !ok {
		return errs.ErrNotFound
	}
	borrow.Status = model.StatusReturned
	borrow.ReturnDate = returnedAt
	t.r.borrows[id] = borrow
	return nil
}

func (t *memTx) DeleteBook(_ context.Context, id int) error {
	if _, ok := t.r.books[id]; !ok {
		return errs.ErrNotFound
	}
	for bid, b := range t.r.borrows {
		if b.BookID == id {
			delete(t.r.borrows, bid)
		}
	}
	delete(t.r.books, id)
	return nil
}

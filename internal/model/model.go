package model

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReturned Status = "returned"
)

type Book struct {
	ID          int    `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	ISBN        string `json:"isbn" db:"isbn"`
	Authors     string `json:"authors" db:"authors"`
	Genre       string `json:"genre" db:"genre"`
	Pages       int    `json:"pages" db:"pages"`
	Year        int    `json:"year" db:"year"`
	Language    string `json:"language" db:"language"`
	Publisher   string `json:"publisher" db:"publisher"`
	Description string `json:"description" db:"description"`
	Quantity    int    `json:"quantity" db:"quantity"`
	CoverImage  string `json:"coverImage" db:"cover_image"`
}

type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
	IsAdmin  bool   `json:"isAdmin" db:"is_admin"`
	Phone    string `json:"phone" db:"phone"`
}

// Borrow is one checked-out copy of a book. BorrowKey is the opaque pickup
// credential the client renders as a scannable code. ReturnDate holds the
// planned date while pending and the actual date once returned.
type Borrow struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"userId" db:"user_id"`
	BookID     int       `json:"bookId" db:"book_id"`
	BorrowDate time.Time `json:"borrowDate" db:"borrow_date"`
	ReturnDate time.Time `json:"returnDate" db:"return_date"`
	BorrowKey  string    `json:"borrowKey" db:"borrow_key"`
	Status     Status    `json:"status" db:"status"`
}

type CreateBookRequest struct {
	Title       string `json:"title" validate:"required"`
	ISBN        string `json:"isbn" validate:"required"`
	Authors     string `json:"authors" validate:"required"`
	Genre       string `json:"genre" validate:"required"`
	Pages       int    `json:"pages" validate:"required,gt=0"`
	Year        int    `json:"year" validate:"required,gt=0"`
	Language    string `json:"language" validate:"required"`
	Publisher   string `json:"publisher" validate:"required"`
	Description string `json:"description" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	CoverImage  string `json:"coverImage"`
}

// UpdateBookRequest carries a partial update; nil fields are left untouched.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	ISBN        *string `json:"isbn"`
	Authors     *string `json:"authors"`
	Genre       *string `json:"genre"`
	Pages       *int    `json:"pages"`
	Year        *int    `json:"year"`
	Language    *string `json:"language"`
	Publisher   *string `json:"publisher"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gte=0"`
	CoverImage  *string `json:"coverImage"`
}

// CreateBorrowRequest dates are caller-supplied; ordering is the caller's
// responsibility and is not validated server-side.
type CreateBorrowRequest struct {
	BookID     int       `json:"bookId" validate:"required"`
	BorrowDate time.Time `json:"borrowDate" validate:"required"`
	ReturnDate time.Time `json:"returnDate" validate:"required"`
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

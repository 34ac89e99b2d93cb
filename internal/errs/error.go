package errs

import (
	"errors"
)

var (
	// ErrNotFound: referenced book, borrow or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoCopies: no available copies left to lend.
	ErrNoCopies = errors.New("no copies available")
	// ErrAlreadyReturned: return attempted on a non-pending borrow.
	ErrAlreadyReturned = errors.New("borrow already returned")
	// ErrKeyConflict: generated borrow key collided with an existing one.
	ErrKeyConflict = errors.New("borrow key conflict")

	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

package service

import (
	"crypto/rand"
)

const (
	borrowKeyLen      = 10
	borrowKeyAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz-"
)

// newBorrowKey returns a 10-character pickup token drawn from a 64-symbol
// alphabet with crypto/rand, ~60 bits of entropy. Uniqueness is enforced by
// the borrow_key unique constraint.
func newBorrowKey() (string, error) {
	buf := make([]byte, borrowKeyLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = borrowKeyAlphabet[int(buf[i])&63]
	}
	return string(buf), nil
}

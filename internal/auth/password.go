package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit. Longer input would be silently
// truncated, so Hash refuses it instead.
const MaxPasswordBytes = 72

// defaultCost is the bcrypt work factor for production (~250ms per hash).
const defaultCost = 12

var (
	// ErrPasswordMismatch means the password does not match the stored hash,
	// or the account has no password at all (GitHub sign-in only).
	ErrPasswordMismatch = errors.New("auth: invalid password")

	ErrPasswordTooLong = fmt.Errorf("auth: password must be %d bytes or fewer", MaxPasswordBytes)
)

// PasswordService hashes and verifies passwords with bcrypt.
//
// WHY BCRYPT?
// It is slow on purpose and salts every hash, so a leaked users table cannot
// be reversed with precomputed tables. The salt and cost are stored inside
// the hash string itself:
//
//	$2a$12$<22-char salt><31-char hash>
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with cost 12.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest lets other packages' tests pick a cheap cost
// (bcrypt.MinCost, 4). Never use it in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of plaintext.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil when plaintext matches hash and ErrPasswordMismatch when
// it does not. bcrypt compares in constant time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if hash == "" {
		return ErrPasswordMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

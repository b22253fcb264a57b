package service

import "errors"

// Validation errors, detected before any write.
var (
	ErrDuplicateIngredient = errors.New("ingredients must be unique")
	ErrInvalidAmount       = errors.New("ingredient amount must be greater than zero")
	ErrEmptyTagSet         = errors.New("at least one tag is required")
	ErrDuplicateTag        = errors.New("tags must be unique")
	ErrInvalidCookingTime  = errors.New("cooking time must be greater than zero")
)

// Conflict and lookup errors.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("recipe already added")
	ErrSelfFollow       = errors.New("cannot subscribe to yourself")
	ErrAlreadyFollowing = errors.New("already subscribed to this user")
	ErrNotFollowing     = errors.New("not subscribed to this user")
	ErrNotAuthor        = errors.New("only the author can modify this recipe")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

// IsValidationError reports whether err is one of the payload validation
// failures.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDuplicateIngredient) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrEmptyTagSet) ||
		errors.Is(err, ErrDuplicateTag) ||
		errors.Is(err, ErrInvalidCookingTime)
}

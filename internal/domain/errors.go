package domain

import "errors"

var (
	// ErrInvalidInput reports bad or missing user input
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials reports a failed login
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken reports a registration against an existing username
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrUnknownSymbol reports a symbol the quote provider cannot resolve
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrInsufficientFunds reports a buy whose cost exceeds available cash
	ErrInsufficientFunds = errors.New("not enough cash for this purchase")

	// ErrInsufficientHoldings reports a sell of more shares than held
	ErrInsufficientHoldings = errors.New("not enough shares to sell")

	// ErrNotFound reports a missing record
	ErrNotFound = errors.New("not found")
)

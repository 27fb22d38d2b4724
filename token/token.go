// Package token defines the value-transfer capability the engine consumes
// from its wallet collaborator. The engine never authenticates callers or
// mints value itself; it assumes every operation here is atomic and fails
// loudly when funds or allowance are insufficient.
//
// All amounts are fixed-point unsigned integers in the smallest token unit.
package token

import (
	"context"
	"errors"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient token allowance")
)

// Bank is the external transfer capability.
type Bank interface {
	// Debit removes amount from the account balance, failing with
	// ErrInsufficientBalance if the balance cannot cover it.
	Debit(ctx context.Context, account string, amount uint64) error

	// Credit adds amount to the account balance.
	Credit(ctx context.Context, account string, amount uint64) error

	// BalanceOf returns the current balance of an account.
	BalanceOf(ctx context.Context, account string) (uint64, error)

	// Allowance returns how much spender may move on behalf of owner.
	Allowance(ctx context.Context, owner, spender string) (uint64, error)
}

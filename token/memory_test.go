package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBankDebitCredit(t *testing.T) {
	ctx := context.Background()
	bank := NewMemoryBank()
	bank.Mint("poster", 1000)

	require.NoError(t, bank.Debit(ctx, "poster", 400))
	require.NoError(t, bank.Credit(ctx, "escrow", 400))

	posterBal, err := bank.BalanceOf(ctx, "poster")
	require.NoError(t, err)
	assert.Equal(t, uint64(600), posterBal)

	escrowBal, err := bank.BalanceOf(ctx, "escrow")
	require.NoError(t, err)
	assert.Equal(t, uint64(400), escrowBal)
}

func TestMemoryBankInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	bank := NewMemoryBank()
	bank.Mint("poster", 100)

	err := bank.Debit(ctx, "poster", 101)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// balance must be untouched after a rejected debit
	bal, err := bank.BalanceOf(ctx, "poster")
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), bal)
}

func TestMemoryBankAllowance(t *testing.T) {
	ctx := context.Background()
	bank := NewMemoryBank()
	bank.Approve("poster", "engine", 250)

	allowed, err := bank.Allowance(ctx, "poster", "engine")
	require.NoError(t, err)
	assert.Equal(t, uint64(250), allowed)

	allowed, err = bank.Allowance(ctx, "poster", "stranger")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), allowed)
}

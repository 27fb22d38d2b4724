package token

import (
	"context"
	"sync"
)

// MemoryBank is the in-process Bank used by tests and single-node
// deployments. Balances live behind one mutex; every operation is atomic.
type MemoryBank struct {
	mu         sync.Mutex
	balances   map[string]uint64
	allowances map[string]map[string]uint64
}

var _ Bank = (*MemoryBank)(nil)

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{
		balances:   make(map[string]uint64),
		allowances: make(map[string]map[string]uint64),
	}
}

// Mint adds freshly created balance to an account. Only test and setup
// code should call this; the engine itself never mints.
func (b *MemoryBank) Mint(account string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
}

// Approve sets the allowance spender may move on behalf of owner.
func (b *MemoryBank) Approve(owner, spender string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.allowances[owner] == nil {
		b.allowances[owner] = make(map[string]uint64)
	}
	b.allowances[owner][spender] = amount
}

func (b *MemoryBank) Debit(_ context.Context, account string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[account] < amount {
		return ErrInsufficientBalance
	}
	b.balances[account] -= amount
	return nil
}

func (b *MemoryBank) Credit(_ context.Context, account string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances[account] += amount
	return nil
}

func (b *MemoryBank) BalanceOf(_ context.Context, account string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.balances[account], nil
}

func (b *MemoryBank) Allowance(_ context.Context, owner, spender string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.allowances[owner][spender], nil
}

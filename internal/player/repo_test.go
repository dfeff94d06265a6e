package player

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tapforge/internal/config"
)

func TestMemoryRepo_LazyCreation(t *testing.T) {
	b := config.DefaultBalance()
	repo := NewMemoryRepo(b)

	s, l, err := repo.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.ID)
	assert.Equal(t, b.StartingMaxEnergy, s.MaxEnergy)
	assert.Empty(t, l)
}

func TestMemoryRepo_MutateCommitsOnNil(t *testing.T) {
	repo := NewMemoryRepo(config.DefaultBalance())
	ctx := context.Background()

	s, l, err := repo.Mutate(ctx, "alice", func(s *State, l Ledger) error {
		s.Currency = 77
		l.SetLevel("side_hustle", 2)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 77.0, s.Currency)
	assert.Equal(t, 2, l.Level("side_hustle"))

	s, l, err = repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 77.0, s.Currency)
	assert.Equal(t, 2, l.Level("side_hustle"))
}

func TestMemoryRepo_MutateDiscardsOnError(t *testing.T) {
	repo := NewMemoryRepo(config.DefaultBalance())
	ctx := context.Background()

	boom := errors.New("boom")
	_, _, err := repo.Mutate(ctx, "alice", func(s *State, l Ledger) error {
		s.Currency = 999
		l.SetLevel("side_hustle", 9)
		return boom
	})
	require.ErrorIs(t, err, boom)

	s, l, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, s.Currency)
	assert.Zero(t, l.Level("side_hustle"))
}

func TestLedger_OwnedIDsSkipsZeroLevels(t *testing.T) {
	l := Ledger{"b": 2, "a": 1, "c": 0}
	assert.Equal(t, []string{"a", "b"}, l.OwnedIDs())
}

func TestLedger_CloneIsIndependent(t *testing.T) {
	l := Ledger{"a": 1}
	c := l.Clone()
	c.SetLevel("a", 5)
	assert.Equal(t, 1, l.Level("a"))
}

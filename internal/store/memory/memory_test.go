package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/session"
	"github.com/tally-dev/tally/internal/store"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	u1 := session.Identity{UserID: "u1", Token: "t"}
	u2 := session.Identity{UserID: "u2", Token: "t"}

	rec := model.Record{
		ID: "r1", Owner: "u1", Title: "Lunch", Amount: decimal.NewFromInt(120),
		Tag: model.TagFood, Kind: model.KindExpenses, Date: calendar.MustParse("2025-01-02"),
	}
	_, err := s.Create(ctx, u1, rec)
	require.NoError(t, err)

	got, err := s.List(ctx, u1, model.KindExpenses)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)

	got, err = s.List(ctx, u2, model.KindExpenses)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.Create(ctx, u2, rec)
	assert.ErrorIs(t, err, store.ErrUnauthorized)
}

func TestStore_SeedKeepsMalformed(t *testing.T) {
	s := New()
	s.Seed("u1", model.KindIncome, model.Entry{ID: "bad", Amount: "n/a"})
	got, err := s.List(context.Background(), session.Identity{UserID: "u1"}, model.KindIncome)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.FlexString("n/a"), got[0].Amount)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().List(ctx, session.Identity{UserID: "u1"}, model.KindIncome)
	assert.ErrorIs(t, err, context.Canceled)
}

package ledger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/session"
	"github.com/tally-dev/tally/internal/store"
)

func record(id string, kind model.Kind, amount, date string, tag model.Tag) model.Record {
	return model.Record{
		ID:            id,
		Owner:         "u1",
		Title:         "Item " + id,
		Amount:        decimal.RequireFromString(amount),
		Tag:           tag,
		Kind:          kind,
		Date:          calendar.MustParse(date),
		PaymentMethod: model.DefaultPaymentMethod,
	}
}

func TestCSVRoundTrip(t *testing.T) {
	entries := []model.Entry{
		record("a", model.KindExpenses, "12.5", "2025-01-03", model.TagFood).Entry(),
		{ID: "b", User: "u1", Title: `Comma, "quoted"`, Amount: "7", Type: "Expenses", Date: "2025-01-04", Description: "line\nbreak"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestReadEntries_Empty(t *testing.T) {
	got, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadEntries_WrongFieldCount(t *testing.T) {
	_, err := ReadEntries(strings.NewReader(Header + "\na,b,c\n"))
	assert.Error(t, err)
}

func TestFileStore_CreateAndList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(dir)
	who := session.Identity{UserID: "u1", Token: "tok"}

	_, err := s.Create(ctx, who, record("1", model.KindExpenses, "30000", "2025-01-05", model.TagFood))
	require.NoError(t, err)
	_, err = s.Create(ctx, who, record("2", model.KindExpenses, "150", "2025-01-06", model.TagMedical))
	require.NoError(t, err)
	_, err = s.Create(ctx, who, record("3", model.KindIncome, "50000", "2025-01-10", model.TagSalary))
	require.NoError(t, err)

	expenses, err := s.List(ctx, who, model.KindExpenses)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "1", expenses[0].ID)
	assert.Equal(t, model.FlexString("30000.00"), expenses[0].Amount)
	assert.Equal(t, "Food", expenses[0].Tag)

	incomes, err := s.List(ctx, who, model.KindIncome)
	require.NoError(t, err)
	require.Len(t, incomes, 1)

	data, err := os.ReadFile(filepath.Join(dir, "u1", "expenses.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestFileStore_ListMissingIsEmpty(t *testing.T) {
	s := NewFileStore(t.TempDir())
	got, err := s.List(context.Background(), session.Identity{UserID: "nobody", Token: "t"}, model.KindIncome)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStore_Unauthorized(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	_, err := s.List(ctx, session.Identity{}, model.KindIncome)
	assert.ErrorIs(t, err, store.ErrUnauthorized)

	_, err = s.Create(ctx, session.Identity{UserID: "u2", Token: "t"}, record("1", model.KindIncome, "1", "2025-01-01", model.TagSalary))
	assert.ErrorIs(t, err, store.ErrUnauthorized)
}

func TestFileStore_RejectsPathOwner(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, err := s.List(context.Background(), session.Identity{UserID: "../etc", Token: "t"}, model.KindIncome)
	assert.Error(t, err)
}

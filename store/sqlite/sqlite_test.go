package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestChildRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCaregiver(ctx, allowance.Caregiver{
		ID: "cg-1", Name: "Mette Hansen", Email: "mette@example.com", CreatedAt: time.Now(),
	}))

	child := allowance.Child{
		ID:          "ch-1",
		Name:        "Emma",
		CaregiverID: "cg-1",
		Grant: allowance.GrantConfig{
			Type: allowance.GrantSpecificWeekdays,
			WeekdayHours: map[allowance.Weekday]decimal.Decimal{
				allowance.Monday:    decimal.RequireFromString("3.5"),
				allowance.Wednesday: decimal.NewFromInt(2),
			},
			HasFrameGrant: true,
			FrameHours:    decimal.NewFromInt(200),
		},
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateChild(ctx, child))

	got, err := s.Child(ctx, "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "Emma", got.Name)
	assert.Equal(t, allowance.GrantSpecificWeekdays, got.Grant.Type)
	assert.True(t, got.Grant.HasFrameGrant)
	assert.True(t, got.Grant.FrameHours.Equal(decimal.NewFromInt(200)))
	require.Len(t, got.Grant.WeekdayHours, 2)
	assert.True(t, got.Grant.WeekdayHours[allowance.Monday].Equal(decimal.RequireFromString("3.5")))

	// Update swaps the grant to a weekly one.
	child.Grant = allowance.GrantConfig{Type: allowance.GrantWeek, Hours: decimal.NewFromInt(10)}
	require.NoError(t, s.UpdateChild(ctx, child))
	got, err = s.Child(ctx, "ch-1")
	require.NoError(t, err)
	assert.Equal(t, allowance.GrantWeek, got.Grant.Type)
	assert.Empty(t, got.Grant.WeekdayHours)

	_, err = s.Child(ctx, "ghost")
	assert.True(t, allowance.IsNotFound(err))

	err = s.UpdateChild(ctx, allowance.Child{ID: "ghost", CaregiverID: "cg-1"})
	assert.True(t, allowance.IsNotFound(err))
}

func TestEntryRoundTripAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCaregiver(ctx, allowance.Caregiver{ID: "cg-1", Name: "Mette", CreatedAt: time.Now()}))
	require.NoError(t, s.CreateChild(ctx, allowance.Child{
		ID: "ch-1", Name: "Emma", CaregiverID: "cg-1",
		Grant:     allowance.GrantConfig{Type: allowance.GrantWeek, Hours: decimal.NewFromInt(40)},
		CreatedAt: time.Now(),
	}))

	mk := func(id, date string, status allowance.EntryStatus) allowance.Entry {
		d, err := allowance.ParseDate(date)
		require.NoError(t, err)
		return allowance.Entry{
			ID: id, ChildID: "ch-1", CaregiverID: "cg-1",
			Date:  d,
			Start: allowance.TimeOfDay{Hour: 17},
			End:   allowance.TimeOfDay{Hour: 23, Minute: 30},
			Breakdown: allowance.TariffBreakdown{
				Normal:  decimal.RequireFromString("6.5"),
				Evening: decimal.NewFromInt(6),
				Night:   decimal.RequireFromString("0.5"),
				Total:   decimal.RequireFromString("6.5"),
			},
			Status:    status,
			Note:      "aftenvagt",
			CreatedAt: time.Now(),
		}
	}
	require.NoError(t, s.CreateEntry(ctx, mk("e-1", "2025-03-10", allowance.StatusApproved)))
	require.NoError(t, s.CreateEntry(ctx, mk("e-2", "2025-03-11", allowance.StatusPending)))
	require.NoError(t, s.CreateEntry(ctx, mk("e-3", "2025-03-20", allowance.StatusRejected)))

	got, err := s.Entry(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", got.Date.String())
	assert.Equal(t, "17:00", got.Start.String())
	assert.Equal(t, "23:30", got.End.String())
	assert.Equal(t, "6.5", got.Breakdown.Total.String())
	assert.Equal(t, "aftenvagt", got.Note)

	entries, err := s.Entries(ctx, allowance.EntryFilter{ChildID: "ch-1"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "e-1", entries[0].ID, "sorted by date")

	from, _ := allowance.ParseDate("2025-03-11")
	to, _ := allowance.ParseDate("2025-03-15")
	entries, err = s.Entries(ctx, allowance.EntryFilter{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e-2", entries[0].ID)

	entries, err = s.Entries(ctx, allowance.EntryFilter{Status: allowance.StatusRejected})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e-3", entries[0].ID)

	require.NoError(t, s.UpdateEntryStatus(ctx, "e-2", allowance.StatusApproved))
	got, err = s.Entry(ctx, "e-2")
	require.NoError(t, err)
	assert.Equal(t, allowance.StatusApproved, got.Status)

	err = s.UpdateEntryStatus(ctx, "ghost", allowance.StatusApproved)
	assert.True(t, allowance.IsNotFound(err))
}

func TestMonthIntervalHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	intervals, err := s.MonthIntervals(ctx)
	require.NoError(t, err)
	assert.Empty(t, intervals)

	first, _ := allowance.ParseDate("2025-01-01")
	second, _ := allowance.ParseDate("2025-06-01")
	require.NoError(t, s.AddMonthInterval(ctx, allowance.MonthInterval{StartDay: 15, EndDay: 14, EffectiveFrom: first}))
	require.NoError(t, s.AddMonthInterval(ctx, allowance.MonthInterval{StartDay: 20, EndDay: 19, EffectiveFrom: second}))

	intervals, err = s.MonthIntervals(ctx)
	require.NoError(t, err)
	require.Len(t, intervals, 2)
	assert.Equal(t, 20, intervals[0].StartDay, "newest first")
	assert.Equal(t, 15, intervals[1].StartDay)

	err = s.AddMonthInterval(ctx, allowance.MonthInterval{StartDay: 0, EndDay: 14, EffectiveFrom: first})
	assert.ErrorIs(t, err, allowance.ErrInvalidMonthInterval)
	err = s.AddMonthInterval(ctx, allowance.MonthInterval{StartDay: 1, EndDay: 32, EffectiveFrom: first})
	assert.ErrorIs(t, err, allowance.ErrInvalidMonthInterval)
}

func TestWithChildLockSerializes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var inside bool
	err := s.WithChildLock(ctx, "ch-1", func(ctx context.Context) error {
		inside = true
		// A second lock on a different child must not block.
		return s.WithChildLock(ctx, "ch-2", func(context.Context) error { return nil })
	})
	require.NoError(t, err)
	assert.True(t, inside)
}

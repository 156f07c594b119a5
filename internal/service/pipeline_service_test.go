package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunForDateFullPass(t *testing.T) {
	f := newFixture()
	f.store.addStudent("a", "year_3")
	f.store.addStudent("b", "year_4")
	f.store.addStudent("missed", "year_4")
	f.store.addBooking("a", testDate)
	f.store.addBooking("b", testDate)

	result, err := f.pipeline.RunForDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Len(t, result.Selections.Created, 2)
	assert.Equal(t, 1, result.Fines.Created) // "missed" neither booked nor presented
	assert.Equal(t, 2, result.Notified)
	assert.Empty(t, result.Errors)
}

func TestRunForDateIdempotentDoubleRun(t *testing.T) {
	f := newFixture()
	f.store.addStudent("a", "year_3")
	f.store.addStudent("b", "year_4")
	f.store.addBooking("a", testDate)
	f.store.addBooking("b", testDate)

	first, err := f.pipeline.RunForDate(context.Background(), testDate)
	require.NoError(t, err)
	second, err := f.pipeline.RunForDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.Len(t, first.Selections.Created, 2)
	assert.Empty(t, second.Selections.Created)
	assert.Equal(t, 0, second.Fines.Created)
	assert.Equal(t, 1, f.store.selectionCount(testDate, "year_3"))
	assert.Equal(t, 1, f.store.selectionCount(testDate, "year_4"))
}

func TestRunForDateShiftsOffHoliday(t *testing.T) {
	f := newFixture()
	f.store.addStudent("a", "year_3")
	f.store.addBooking("a", "2024-06-11")
	f.store.addHoliday("2024-06-10", "Founders Day", true)

	result, err := f.pipeline.RunForDate(context.Background(), "2024-06-10")
	require.NoError(t, err)

	require.NotNil(t, result.Reschedule)
	assert.Equal(t, "2024-06-11", result.Date)
	// selection ran against the shifted date
	assert.Len(t, result.Selections.Created, 1)
	assert.Equal(t, "2024-06-11", result.Selections.Created[0].Date)
}

func TestRunForDateFinesRunEvenWithNothingToSelect(t *testing.T) {
	f := newFixture()
	f.store.addStudent("missed", "year_3")

	result, err := f.pipeline.RunForDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.Empty(t, result.Selections.Created)
	assert.Equal(t, 1, result.Fines.Created)
}

func TestRunForDateNotificationFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.notifier.fail = true
	f.store.addStudent("a", "year_3")
	f.store.addBooking("a", testDate)

	result, err := f.pipeline.RunForDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Len(t, result.Selections.Created, 1)
	assert.Equal(t, 0, result.Notified)
	assert.NotEmpty(t, result.Errors)
	// the selection stayed committed
	assert.Equal(t, 1, f.store.selectionCount(testDate, "year_3"))
}

func TestRunUsesComputedNextDate(t *testing.T) {
	f := newFixture()
	f.pipeline.now = func() time.Time { return date("2024-06-08") } // Saturday

	f.store.addStudent("a", "year_3")
	f.store.addBooking("a", "2024-06-10")

	result, err := f.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", result.Date) // pinned past the Sunday off-day
	assert.Len(t, result.Selections.Created, 1)
}

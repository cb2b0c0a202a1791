package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)

	for _, invalid := range []string{"9:30am", "25:00", "10:75", "morning", ""} {
		_, err := NewTimeStringFromString(invalid)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input=%q", invalid)
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	a := TimeString("09:00")
	b := TimeString("17:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.False(t, a.IsBefore(a))
}

func TestTimeString_HoursUntil(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want float64
	}{
		{"09:00", "17:00", 8},
		{"10:00", "11:30", 1.5},
		{"10:00", "10:00", 0},
		{"14:00", "10:00", -4},
	}

	for _, tt := range tests {
		hours, err := TimeString(tt.from).HoursUntil(TimeString(tt.to))
		require.NoError(t, err)
		assert.Equal(t, tt.want, hours, "%s -> %s", tt.from, tt.to)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("10:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), ts)

	// За границей суток значение обрезается
	ts, err = TimeString("23:30").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:59"), ts)
}

func TestTimeString_ScanFromPostgresTime(t *testing.T) {
	var ts TimeString

	// Колонка TIME приходит с секундами
	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("21:45:00")))
	assert.Equal(t, TimeString("21:45"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	// Пустое время пишется как NULL (daily бронирования без интервала)
	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

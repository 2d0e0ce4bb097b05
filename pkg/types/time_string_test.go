package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: "09:30"},
		{name: "hh:mm:ss from postgres", input: "17:00:00", want: "17:00"},
		{name: "surrounding spaces", input: " 08:05 ", want: "08:05"},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("10:45").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), got)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("00:10").AddMinutes(-20)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.True(t, TimeString("09:00").Equal("09:00"))
	assert.False(t, TimeString("bad").IsBefore("09:00"))
}

func TestTimeString_OnDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2025, 3, 10, 22, 15, 0, 0, loc)

	got, err := TimeString("09:30").OnDate(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, loc), got)
}

func TestTimeString_ScanAndValue(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("08:00:00")))
	assert.Equal(t, TimeString("08:00"), ts)

	require.NoError(t, ts.Scan("18:30"))
	assert.Equal(t, TimeString("18:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))

	v, err := TimeString("07:15").Value()
	require.NoError(t, err)
	assert.Equal(t, "07:15", v)

	_, err = TimeString("7pm").Value()
	assert.Error(t, err)
}

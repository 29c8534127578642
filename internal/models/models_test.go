package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString(t *testing.T) {
	tests := []struct {
		in   Time
		want string
	}{
		{Time{Hour: 7, Minute: 5, AMPM: PM}, "7:05 PM"},
		{Time{Hour: 12, Minute: 0, AMPM: AM}, "12:00 AM"},
		{Time{Hour: 11, Minute: 30, AMPM: AM}, "11:30 AM"},
		{Time{Hour: 10, Minute: 59, AMPM: PM}, "10:59 PM"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
}

func TestParseTimeRoundTrip(t *testing.T) {
	for _, h := range HourOptions() {
		for _, m := range MinuteOptions() {
			for _, ampm := range []Meridiem{AM, PM} {
				in := Time{Hour: h, Minute: m, AMPM: ampm}
				got, err := ParseTime(in.String())
				require.NoError(t, err)
				require.Equal(t, in, got)
			}
		}
	}
}

func TestParseTimeInvalid(t *testing.T) {
	for _, s := range []string{"", "7:05", "705 PM", "13:00 PM", "0:10 AM", "7:60 PM", "7:05 XM", "a:05 PM"} {
		_, err := ParseTime(s)
		assert.ErrorIs(t, err, ErrInvalidTime, s)
	}
}

func TestTimeSetters(t *testing.T) {
	tm := DefaultTime()
	assert.Equal(t, "7:00 PM", tm.String())

	require.NoError(t, tm.SetHour(12))
	require.NoError(t, tm.SetMinute(45))
	assert.ErrorIs(t, tm.SetHour(0), ErrInvalidTime)
	assert.ErrorIs(t, tm.SetHour(13), ErrInvalidTime)
	assert.ErrorIs(t, tm.SetMinute(60), ErrInvalidTime)
	assert.ErrorIs(t, tm.SetMeridiem("XM"), ErrInvalidTime)
	assert.Equal(t, "12:45 PM", tm.String())

	require.NoError(t, tm.SetMeridiem(AM))
	require.NoError(t, tm.SetMeridiem(AM))
	assert.Equal(t, AM, tm.AMPM)

	tm.ToggleMeridiem()
	assert.Equal(t, PM, tm.AMPM)
	tm.ToggleMeridiem()
	assert.Equal(t, AM, tm.AMPM)
}

func TestTimeClock24(t *testing.T) {
	assert.Equal(t, "00:15", Time{Hour: 12, Minute: 15, AMPM: AM}.Clock24())
	assert.Equal(t, "12:15", Time{Hour: 12, Minute: 15, AMPM: PM}.Clock24())
	assert.Equal(t, "19:05", Time{Hour: 7, Minute: 5, AMPM: PM}.Clock24())
}

func TestRecordDinersDecoding(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"diners":4}`), &rec))
	assert.Equal(t, Diners(4), rec.Diners)

	require.NoError(t, json.Unmarshal([]byte(`{"diners":"6"}`), &rec))
	assert.Equal(t, Diners(6), rec.Diners)

	assert.Error(t, json.Unmarshal([]byte(`{"diners":"many"}`), &rec))
}

func TestSubmitResultIDs(t *testing.T) {
	var res SubmitResult
	require.NoError(t, json.Unmarshal([]byte(`{"message":"ok","data":{"id":42,"token":"abc"}}`), &res))
	assert.Equal(t, "42", res.ReservationID())
	assert.Equal(t, "abc", res.AccessToken())

	var empty *SubmitResult
	assert.Equal(t, "", empty.ReservationID())
}

func TestEditSessionComplete(t *testing.T) {
	var nilSession *EditSession
	assert.False(t, nilSession.Complete())
	assert.False(t, (&EditSession{ReservationID: "1"}).Complete())
	assert.True(t, (&EditSession{ReservationID: "1", AccessToken: "t"}).Complete())
}

func TestDefaultDraft(t *testing.T) {
	d := DefaultDraft()
	assert.Equal(t, Draft{Time: Time{Hour: 7, Minute: 0, AMPM: PM}, Diners: "1", Seating: "inside", Pickup: "no"}, d)
	assert.True(t, ValidSeating(d.Seating))
	assert.True(t, ValidPickup(d.Pickup))
	assert.False(t, ValidSeating("roof"))
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(1974, time.November, 29))
	require.NoError(t, err)
	assert.Equal(t, `"1974-11-29"`, string(data))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"1980-01-27"`), &d))
	assert.Equal(t, NewDate(1980, time.January, 27), d)

	// timestamps are accepted and cut to their date
	require.NoError(t, json.Unmarshal([]byte(`"1969-03-02T00:00:00+00:00"`), &d))
	assert.Equal(t, NewDate(1969, time.March, 2), d)

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2009, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2009, time.March, 31), d)

	require.NoError(t, d.Scan([]byte("2011-12-11")))
	assert.Equal(t, NewDate(2011, time.December, 11), d)

	require.NoError(t, d.Scan("2011-12-11 00:00:00"))
	assert.Equal(t, NewDate(2011, time.December, 11), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDateValue(t *testing.T) {
	value, err := NewDate(2000, time.January, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2000-01-01", value)

	value, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestDateOfKeepsCalendarDay(t *testing.T) {
	prague := time.FixedZone("CET", 3600)
	assert.Equal(t, NewDate(2026, time.January, 1), DateOf(time.Date(2026, time.January, 1, 0, 30, 0, 0, prague)))
	assert.Equal(t, NewDate(2026, time.January, 8), NewDate(2026, time.January, 1).AddDays(7))
}

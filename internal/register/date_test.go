package register

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(2025, time.March, 9)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-09"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d))

	require.NoError(t, json.Unmarshal([]byte(`"2025-03-09T14:22:00Z"`), &back))
	assert.Equal(t, "2025-03-09", back.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &back))
	assert.True(t, back.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"09/03/2025"`), &back))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01-02", d.String())

	require.NoError(t, d.Scan("2025-01-03"))
	assert.Equal(t, "2025-01-03", d.String())

	require.NoError(t, d.Scan([]byte("2025-01-04")))
	assert.Equal(t, "2025-01-04", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2025, 1, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-05", v)
}

func TestDateRange_Validate(t *testing.T) {
	jan1 := NewDate(2025, 1, 1)
	jan5 := NewDate(2025, 1, 5)

	assert.NoError(t, DateRange{Start: jan1, End: jan5}.Validate())
	assert.NoError(t, DateRange{Start: jan1, End: jan1}.Validate())
	assert.ErrorIs(t, DateRange{Start: jan5, End: jan1}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, DateRange{Start: jan1}.Validate(), ErrInvalidRange)

	r := DateRange{Start: jan1, End: jan5}
	assert.True(t, r.Contains(jan1))
	assert.True(t, r.Contains(jan5))
	assert.False(t, r.Contains(jan5.AddDays(1)))
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	d := DateOf(time.Date(2025, 6, 30, 23, 30, 0, 0, loc))
	assert.Equal(t, "2025-06-30", d.String())
}

package weekday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sets := []Set{
		NewSet(),
		NewSet(Monday),
		NewSet(Sunday, Saturday),
		NewSet(Monday, Wednesday, Friday),
		NewSet(All()...),
	}

	for _, s := range sets {
		decoded := Decode(Encode(s))
		assert.True(t, decoded.Equal(s), "round trip changed set %v", s.Days())
	}
}

func TestEncodeEmptySet(t *testing.T) {
	assert.Equal(t, "", Encode(NewSet()))
}

func TestDecodeIgnoresInvalidTokens(t *testing.T) {
	s := Decode("2 99 x 4")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(Monday))
	assert.True(t, s.Contains(Wednesday))
}

func TestDecodeEmptyString(t *testing.T) {
	assert.True(t, Decode("").IsEmpty())
	assert.True(t, Decode("   ").IsEmpty())
}

func TestFromTime(t *testing.T) {
	// 2024-01-01 was a Monday.
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, Monday, FromTime(monday))
	assert.Equal(t, Sunday, FromTime(monday.AddDate(0, 0, 6)))
}

func TestSetAddIgnoresInvalid(t *testing.T) {
	s := NewSet()
	s.Add(Weekday(0))
	s.Add(Weekday(8))

	assert.True(t, s.IsEmpty())
}

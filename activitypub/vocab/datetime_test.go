package vocab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDatetime(t *testing.T) {
	assert := assert.New(t)

	ts := time.Date(2024, 3, 5, 10, 20, 30, 999, time.FixedZone("EST", -5*3600))
	dt := NewDatetime(ts)
	assert.Equal("2024-03-05T15:20:30Z", dt.String())

	parsed, err := dt.Time()
	assert.NoError(err)
	assert.True(parsed.Equal(ts.Truncate(time.Second)))

	_, err = ParseDatetime(dt.String())
	assert.NoError(err)
}

func TestDatetimeSyntax(t *testing.T) {
	assert := assert.New(t)

	valid := []string{
		"1985-04-12T23:20:50.123Z",
		"1985-04-12T23:20:50Z",
		"1985-04-12T23:20:50+07:00",
	}
	invalid := []string{
		"",
		"1985-04-12",
		"1985-04-12 23:20:50Z",
		"1985-04-12T23:20:50",
		"yesterday",
	}
	for _, s := range valid {
		_, err := ParseDatetime(s)
		assert.NoError(err, s)
	}
	for _, s := range invalid {
		_, err := ParseDatetime(s)
		assert.Error(err, s)
	}
}

package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	assert.Equal(t, "0 ₫", Currency(0))
	assert.Equal(t, "25.000 ₫", Currency(25000))
	assert.Equal(t, "1.200.000 ₫", Currency(1200000))
	assert.Equal(t, "45.001 ₫", Currency(45000.6))
	assert.Equal(t, "NaN ₫", Currency(math.NaN()))
}

func TestCurrencyBeyondInt64(t *testing.T) {
	assert.Equal(t, "10.000.000.000.000.000.000 ₫", Currency(1e19))
	assert.Equal(t, "-10.000.000.000.000.000.000 ₫", Currency(-1e19))
	assert.Equal(t, "100.000.000.000.000.000.000 ₫", Currency(1e20))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "7/3/2024", Date(time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "25/12/2023", DateString("2023-12-25"))
	assert.Equal(t, "1/1/2024", DateString("2024-01-01T08:30:00"))
	assert.Equal(t, "Invalid Date", DateString("yesterday"))
}

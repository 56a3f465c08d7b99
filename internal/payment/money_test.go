package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "85.00", FormatMinorUnits(8500))
	assert.Equal(t, "100.50", FormatMinorUnits(10050))
	assert.Equal(t, "0.05", FormatMinorUnits(5))
	assert.Equal(t, "-1.50", FormatMinorUnits(-150))
}

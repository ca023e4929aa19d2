package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrateTrend(t *testing.T) {
	got, err := NarrateTrend([]PeriodValue{
		{"2021Q1", 100},
		{"2021Q2", 120},
		{"2021Q3", 150},
	})
	require.NoError(t, err)
	assert.Equal(t, "Increased by 50.00% from 2021Q1 (100.00) to 2021Q3 (150.00).", got)

	got, err = NarrateTrend([]PeriodValue{{"FY 2020-21", 200}, {"FY 2021-22", 150}})
	require.NoError(t, err)
	assert.Equal(t, "Decreased by 25.00% from FY 2020-21 (200.00) to FY 2021-22 (150.00).", got)

	got, err = NarrateTrend([]PeriodValue{{"2021-01", 80}, {"2021-02", 80}})
	require.NoError(t, err)
	assert.Equal(t, "No change between 2021-01 and 2021-02 (80.00).", got)
}

func TestNarrateTrendZeroBaseline(t *testing.T) {
	got, err := NarrateTrend([]PeriodValue{{"2021-01", 0}, {"2021-02", 40}})
	require.NoError(t, err)
	assert.Equal(t, "Increased from a zero baseline in 2021-01 to 40.00 in 2021-02.", got)

	got, err = NarrateTrend([]PeriodValue{{"2021-01", 0}, {"2021-02", -15}})
	require.NoError(t, err)
	assert.Equal(t, "Decreased from a zero baseline in 2021-01 to -15.00 in 2021-02.", got)
}

func TestNarrateTrendTooFewPeriods(t *testing.T) {
	_, err := NarrateTrend([]PeriodValue{{"2021-01", 10}})
	assert.Error(t, err)
	_, err = NarrateTrend(nil)
	assert.Error(t, err)
}

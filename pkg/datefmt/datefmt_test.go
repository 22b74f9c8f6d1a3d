package datefmt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/pkg/datefmt"
)

func TestParse(t *testing.T) {
	got, err := datefmt.Parse("25/08/2025")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.August, 25, 0, 0, 0, 0, time.UTC), got)

	got, err = datefmt.Parse("5/8/2025")
	require.NoError(t, err)
	assert.Equal(t, "05/08/2025", datefmt.Format(got))

	_, err = datefmt.Parse("2025-08-25")
	assert.Error(t, err)
	_, err = datefmt.Parse("31/02/2025")
	assert.Error(t, err)
}

func TestParseBound_AceptaAmbosFormatos(t *testing.T) {
	a, err := datefmt.ParseBound("2025-01-15")
	require.NoError(t, err)
	b, err := datefmt.ParseBound("15/01/2025")
	require.NoError(t, err)
	assert.True(t, a.Equal(*b))

	none, err := datefmt.ParseBound("  ")
	require.NoError(t, err)
	assert.Nil(t, none)
}

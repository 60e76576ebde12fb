package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNowIsPinned(t *testing.T) {
	now := Now()
	require.Equal(t, "Asia/Taipei", now.Location().String())

	_, offset := now.Zone()
	require.Equal(t, 8*60*60, offset)
}

func TestLocationUsableForDateMath(t *testing.T) {
	d := time.Date(2024, 3, 1, 23, 30, 0, 0, Location)
	require.Equal(t, 1, d.Day())
}

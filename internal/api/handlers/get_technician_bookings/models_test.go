package get_technician_bookings

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(7, 7, url.Values{
		"date":             {"2025-03-10"},
		"from":             {"2025-01-01"},
		"status":           {"confirmed"},
		"includeCancelled": {"true"},
	})
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, req.StartDate)
	require.NotNil(t, req.EndDate)
	assert.Equal(t, day, *req.StartDate)
	assert.Equal(t, day, *req.EndDate)
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.IncludeCancelled)

	req, err = ToServiceRequest(7, 7, url.Values{"from": {"2025-03-01"}, "to": {"2025-03-31"}})
	require.NoError(t, err)
	assert.Equal(t, 1, req.StartDate.Day())
	assert.Equal(t, 31, req.EndDate.Day())
	assert.Nil(t, req.Status)

	for _, bad := range []url.Values{
		{"date": {"10.03.2025"}},
		{"from": {"yesterday"}},
		{"to": {"2025-13-01"}},
		{"includeCancelled": {"maybe"}},
	} {
		_, err := ToServiceRequest(7, 7, bad)
		assert.Error(t, err, "%v", bad)
	}
}

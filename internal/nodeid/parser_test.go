package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		rawID        string
		expectErr    bool
		expectedAddr Address
	}{
		{
			name:         "group and name",
			rawID:        "sources.wavelet",
			expectedAddr: New("sources", "wavelet"),
		},
		{
			name:         "port index",
			rawID:        "sources.wavelet[3]",
			expectedAddr: New("sources", "wavelet").WithPort(3),
		},
		{
			name:      "error - empty",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - missing group",
			rawID:     "wavelet",
			expectErr: true,
		},
		{
			name:      "error - invalid name",
			rawID:     "sources.wave let",
			expectErr: true,
		},
		{
			name:      "error - nested path",
			rawID:     "sources.a.b",
			expectErr: true,
		},
		{
			name:      "error - dash name",
			rawID:     "sources.-",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.rawID)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedAddr, addr)
		})
	}
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("ImageWriter1"))
	assert.True(t, ValidName("my_extract-2"))
	assert.False(t, ValidName("port[1]"))
	assert.False(t, ValidName("has space"))
	assert.False(t, ValidName(""))
}

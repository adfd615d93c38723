package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckProtocol(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{ProtocolVersion, true},
		{"1.0.0", true},
		{"1.9.3", true},
		{"v1.2", true},
		{"0.9.0", false},
		{"2.0.0", false},
		{"banana", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := CheckProtocol(tt.version)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	info := Get()
	assert.Equal(t, ProtocolVersion, info.Protocol)
	assert.Contains(t, info.String(), "mangagraph")
	assert.Equal(t, "dev", info.Short())
}

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-quant/hftsim/pkg/errors"
)

func TestCheckVersionCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		configVersion string
		expectError   bool
		expectCode    errors.ErrorCode
	}{
		{
			name:          "exact match",
			engineVersion: "1.2.0",
			configVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "patch differs",
			engineVersion: "1.2.1",
			configVersion: "1.2.5",
			expectError:   false,
		},
		{
			name:          "v prefix accepted",
			engineVersion: "v1.2.0",
			configVersion: "1.2.3",
			expectError:   false,
		},
		{
			name:          "dev engine skips check",
			engineVersion: "main",
			configVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "dev config skips check",
			engineVersion: "1.2.0",
			configVersion: "main",
			expectError:   false,
		},
		{
			name:          "minor mismatch",
			engineVersion: "1.3.0",
			configVersion: "1.2.0",
			expectError:   true,
			expectCode:    errors.ErrCodeVersionMismatch,
		},
		{
			name:          "major mismatch",
			engineVersion: "2.0.0",
			configVersion: "1.2.0",
			expectError:   true,
			expectCode:    errors.ErrCodeVersionMismatch,
		},
		{
			name:          "garbage engine version",
			engineVersion: "not-a-version",
			configVersion: "1.2.0",
			expectError:   true,
			expectCode:    errors.ErrCodeInvalidVersion,
		},
		{
			name:          "garbage config version",
			engineVersion: "1.2.0",
			configVersion: "not-a-version",
			expectError:   true,
			expectCode:    errors.ErrCodeInvalidVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersionCompatibility(tt.engineVersion, tt.configVersion)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.expectCode))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}

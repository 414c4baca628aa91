package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name:    "정상 옵션",
			opts:    Options{Name: "zara-stock-server"},
			wantErr: false,
		},
		{
			name:    "Name 누락",
			opts:    Options{},
			wantErr: true,
		},
		{
			name:    "음수 MaxAge",
			opts:    Options{Name: "app", MaxAge: -1},
			wantErr: true,
		},
		{
			name:    "음수 MaxSizeMB",
			opts:    Options{Name: "app", MaxSizeMB: -1},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfiles(t *testing.T) {
	prod := NewProductionOptions("zara-stock-server")
	require.NoError(t, prod.Validate())
	assert.Equal(t, InfoLevel, prod.Level)
	assert.True(t, prod.EnableCriticalLog)
	assert.False(t, prod.EnableConsoleLog)

	dev := NewDevelopmentOptions("zara-stock-server")
	require.NoError(t, dev.Validate())
	assert.Equal(t, TraceLevel, dev.Level)
	assert.True(t, dev.EnableConsoleLog)
}

func TestMaskSensitiveData(t *testing.T) {
	assert.Equal(t, "", MaskSensitiveData(""))
	assert.Equal(t, "***", MaskSensitiveData("abc"))
	assert.Equal(t, "1234***", MaskSensitiveData("123456789"))
	assert.Equal(t, "1234***wxyz", MaskSensitiveData("1234567890abcdwxyz"))
}

func TestWithComponentAndFields(t *testing.T) {
	entry := WithComponentAndFields("watcher.service", Fields{"cycle_id": "abc"})
	assert.Equal(t, "watcher.service", entry.Data["component"])
	assert.Equal(t, "abc", entry.Data["cycle_id"])
}

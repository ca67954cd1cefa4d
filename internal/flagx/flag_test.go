package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		boolFlags    []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag",
			args:         []string{"-c", "-a", "x"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "bool flag does not swallow next argument",
			args:         []string{"-o", "positional", "-a", ":80"},
			allowedFlags: []string{"-o", "-a"},
			boolFlags:    []string{"-o"},
			want:         []string{"-o", "-a", ":80"},
		},
		{
			name:         "bool flag with explicit value",
			args:         []string{"-o=false"},
			allowedFlags: []string{"-o"},
			boolFlags:    []string{"-o"},
			want:         []string{"-o=false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags, tt.boolFlags...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFileFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"bin", "-a", ":9090", "-c", "conf.json", "-env", "prod.env"}
	j, e := ConfigFileFlags()
	assert.Equal(t, "conf.json", j)
	assert.Equal(t, "prod.env", e)

	os.Args = []string{"bin", "-config=other.json"}
	j, e = ConfigFileFlags()
	assert.Equal(t, "other.json", j)
	assert.Equal(t, "", e)

	os.Args = []string{"bin"}
	j, e = ConfigFileFlags()
	assert.Empty(t, j)
	assert.Empty(t, e)
}

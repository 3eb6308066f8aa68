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
		want         []string
	}{
		{"short flag with separate value", []string{"-c", "conf.json", "-a", "localhost"}, []string{"-c", "-config"}, []string{"-c", "conf.json"}},
		{"double dash matches single dash entry", []string{"--config=alt.json", "-a", "localhost"}, []string{"-c", "-config"}, []string{"--config=alt.json"}},
		{"double dash with separate value", []string{"--a", ":8080", "-x", "1"}, []string{"-a"}, []string{"--a", ":8080"}},
		{"unknown flags and positionals ignored", []string{"-x", "1", "--y=2", "positional"}, []string{"-c"}, []string{}},
		{"flag without value at end is kept as-is", []string{"-c"}, []string{"-c"}, []string{"-c"}},
		{"flag followed by another flag", []string{"-c", "-notvalue"}, []string{"-c"}, []string{"-c"}},
		{"negative number is a value", []string{"-w", "-1", "-l", "debug"}, []string{"-w", "-l"}, []string{"-w", "-1", "-l", "debug"}},
		{"equals form keeps dashes in value", []string{"--config=--weird.json"}, []string{"-config"}, []string{"--config=--weird.json"}},
		{"terminator stops parsing", []string{"-a", ":1", "--", "-a", ":2"}, []string{"-a"}, []string{"-a", ":1"}},
		{"repeated flag preserved in order", []string{"-c", "one.json", "-c", "two.json"}, []string{"-c"}, []string{"-c", "one.json", "-c", "two.json"}},
		{"empty args", []string{}, []string{"-c"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func Test_jsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv(ConfigEnvVar, "")

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", JsonConfigFlags())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("double dash long form", func(t *testing.T) {
		os.Args = []string{"testbin", "--config=/path/dd.json"}
		assert.Equal(t, "/path/dd.json", JsonConfigFlags())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})

	t.Run("falls back to CONFIG env", func(t *testing.T) {
		os.Args = []string{"testbin", "-a", ":5000"}
		t.Setenv(ConfigEnvVar, "/etc/shipagency.json")
		assert.Equal(t, "/etc/shipagency.json", JsonConfigFlags())
	})

	t.Run("flag beats CONFIG env", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/flag.json"}
		t.Setenv(ConfigEnvVar, "/etc/shipagency.json")
		assert.Equal(t, "/path/flag.json", JsonConfigFlags())
	})
}

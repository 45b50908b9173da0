package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
roles:
  agent: watson
sizing:
  min-padding: 2
transport:
  endpoint: http://example.test/api/message
  timeout: 5s
`), 0o644))

	t.Chdir(dir)
	v := viper.New()
	v.SetConfigFile(path)
	s, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "watson", s.Roles.Agent)
	require.Equal(t, "user", s.Roles.User)
	require.Equal(t, 2, s.Sizing.MinPadding)
	require.Equal(t, 6, s.Sizing.MaxPadding)
	require.Equal(t, "http://example.test/api/message", s.Transport.Endpoint)
	require.Equal(t, 5*time.Second, s.Transport.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load(v)
	require.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONVOPANEL_ENDPOINT", "http://agent:9000/api/message")
	t.Setenv("CONVOPANEL_TIMEOUT", "2s")

	s, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, "http://agent:9000/api/message", s.Transport.Endpoint)
	require.Equal(t, 2*time.Second, s.Transport.Timeout)
	require.Equal(t, Default().TimestampLayout, s.TimestampLayout)

	t.Setenv("CONVOPANEL_TIMEOUT", "soon")
	_, err = Load(viper.New())
	require.Error(t, err)
}

func TestLoad_DotEnvAndExplicitValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("CONVOPANEL_TIMESTAMP_LAYOUT=15:04\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("CONVOPANEL_TIMESTAMP_LAYOUT", "")
	_ = os.Unsetenv("CONVOPANEL_TIMESTAMP_LAYOUT")

	v := viper.New()
	v.Set(KeyEndpoint, "http://flag.test/api/message")
	s, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "15:04", s.TimestampLayout)
	require.Equal(t, "http://flag.test/api/message", s.Transport.Endpoint)
}

func TestValidate_RejectsBadBreakpoints(t *testing.T) {
	s := Default()
	s.Sizing.MaxFontSize = s.Sizing.MinFontSize
	require.Error(t, s.Validate())

	s = Default()
	s.Roles.Agent = s.Roles.User
	require.Error(t, s.Validate())

	require.Error(t, Settings{}.Validate())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8050", c.HTTPAddress)
	assert.Equal(t, "table", c.DefaultFormat)
	assert.Equal(t, 10, c.ReadTimeoutSec)
	assert.Equal(t, 30, c.WriteTimeoutSec)
	assert.Empty(t, c.MissingValues)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "gymdash.yaml")
	body := "data_path: members.xlsx\nsheet_name: Members\nhttp_address: 127.0.0.1:9000\nmissing_values: [\"-\", \"?\"]\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	t.Setenv("GYMDASH_HTTP_ADDRESS", ":7000")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "members.xlsx", c.DataPath)
	assert.Equal(t, "Members", c.SheetName)
	assert.Equal(t, []string{"-", "?"}, c.MissingValues)
	assert.Equal(t, ":7000", c.HTTPAddress, "env overrides file")
}

func TestSetAndSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	c := &Global{}
	require.NoError(t, c.Set("delimiter", ";"))
	require.NoError(t, c.Set("decimal_separator", ","))
	require.NoError(t, c.Set("missing_values", "NA, -, ?"))
	require.NoError(t, c.Set("write_timeout_sec", "45"))
	require.NoError(t, c.Set("default_format", "JSON"))
	require.NoError(t, Save(c, p))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ";", got.Delimiter)
	assert.Equal(t, ",", got.DecimalSeparator)
	assert.Equal(t, []string{"NA", "-", "?"}, got.MissingValues)
	assert.Equal(t, 45, got.WriteTimeoutSec)
	assert.Equal(t, "json", got.DefaultFormat)

	for _, k := range Keys {
		_, err := got.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	c := &Global{}
	cases := map[string]string{
		"delimiter":         ";;",
		"decimal_separator": "x",
		"read_timeout_sec":  "-1",
		"default_format":    "xml",
		"api_key":           "x",
	}
	for k, v := range cases {
		assert.Error(t, c.Set(k, v), "%s=%s", k, v)
	}
}

func TestParseRune(t *testing.T) {
	for in, want := range map[string]rune{"": 0, ",": ',', `\t`: '\t', "tab": '\t', ";": ';'} {
		r, err := ParseRune(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, r, in)
	}
}

package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/pkg/app/cliflag"
)

type storeOptions struct {
	Dir     string        `mapstructure:"dir"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type testOptions struct {
	Store     *storeOptions `mapstructure:"store"`
	completed bool
}

func (o *testOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("store")
	fs.StringVar(&o.Store.Dir, "store.dir", o.Store.Dir, "directory")
	fs.DurationVar(&o.Store.Timeout, "store.timeout", o.Store.Timeout, "timeout")
	return fss
}

func (o *testOptions) Complete() error { o.completed = true; return nil }
func (o *testOptions) Validate() error { return nil }

func newTestOptions() *testOptions {
	return &testOptions{Store: &storeOptions{Dir: "uploads", Timeout: time.Second}}
}

func TestConfigFileEnvAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "docvault-test.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("store:\n  dir: ${DV_TEST_ROOT}/files\n  timeout: 5s\n"), 0o600))
	t.Setenv("DV_TEST_ROOT", "/data")

	opts := newTestOptions()
	var ran bool
	a := NewApp(WithName("docvault-test"), WithOptions(opts), WithRunFunc(func() error {
		ran = true
		return nil
	}))
	a.Command().SetArgs([]string{"-c", cfg})
	require.NoError(t, a.Command().Execute())

	assert.True(t, ran)
	assert.True(t, opts.completed)
	assert.Equal(t, "/data/files", opts.Store.Dir)
	assert.Equal(t, 5*time.Second, opts.Store.Timeout)

	opts = newTestOptions()
	a = NewApp(WithName("docvault-test"), WithOptions(opts))
	a.Command().SetArgs([]string{"-c", cfg, "--store.dir", "/override"})
	require.NoError(t, a.Command().Execute())
	assert.Equal(t, "/override", opts.Store.Dir)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("DOCVAULT_ENV_STORE_DIR", "/from-env")

	opts := newTestOptions()
	a := NewApp(WithName("docvault-env"), WithOptions(opts))
	a.Command().SetArgs([]string{})
	require.NoError(t, a.Command().Execute())
	assert.Equal(t, "/from-env", opts.Store.Dir)
	assert.Equal(t, time.Second, opts.Store.Timeout)
}

func TestMissingExplicitConfigFails(t *testing.T) {
	a := NewApp(WithName("docvault-missing"), WithOptions(newTestOptions()))
	a.Command().SetArgs([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, a.Command().Execute())
}

func TestEnvPrefix(t *testing.T) {
	assert.Equal(t, "DOC_VAULT", EnvPrefix("doc-vault"))
}

package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbopts "github.com/kart-io/docvault/pkg/options/database"
)

func TestNewSQLite(t *testing.T) {
	opts := dbopts.NewOptions()
	opts.Driver = dbopts.DriverSQLite
	opts.Path = filepath.Join(t.TempDir(), "test.db")

	c, err := New(context.Background(), opts)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "sqlite", c.Name())
	assert.NoError(t, c.Ping(context.Background()))

	var n int
	require.NoError(t, c.DB().Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
}

func TestNewUnsupportedDriver(t *testing.T) {
	opts := dbopts.NewOptions()
	opts.Driver = "oracle"
	_, err := New(context.Background(), opts)
	assert.ErrorContains(t, err, "unsupported")
}

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"empty", "", "password=''"},
		{"plain", "secret", "password=secret "},
		{"space", "pass word", "password='pass word'"},
		{"quote", "it's", `password='it\'s'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := dbopts.NewOptions()
			opts.Password = tt.password
			dsn := BuildPostgresDSN(opts)
			assert.Contains(t, dsn, tt.want)
			assert.True(t, strings.HasPrefix(dsn, "host=127.0.0.1 port=5432 user=postgres"))
			assert.Contains(t, dsn, "dbname=docvault sslmode=disable")
		})
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	opts := dbopts.NewOptions()
	opts.Driver = dbopts.DriverMySQL
	opts.Port = 3306
	opts.Username = "root"
	opts.Password = "pw"
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/docvault?charset=utf8mb4&parseTime=True&loc=UTC", BuildMySQLDSN(opts))
}

package database

import (
	"fmt"
	"strings"

	dbopts "github.com/kart-io/docvault/pkg/options/database"
)

// BuildPostgresDSN creates a key=value PostgreSQL DSN. The password is quoted
// when it contains spaces, quotes or backslashes.
func BuildPostgresDSN(opts *dbopts.Options) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		opts.Host,
		opts.Port,
		opts.Username,
		escapePostgresValue(opts.Password),
		opts.Database,
		opts.SSLMode,
	)
}

// BuildMySQLDSN creates a go-sql-driver DSN.
func BuildMySQLDSN(opts *dbopts.Options) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		opts.Username,
		opts.Password,
		opts.Host,
		opts.Port,
		opts.Database,
	)
}

func escapePostgresValue(value string) string {
	if value == "" {
		return "''"
	}
	if !strings.ContainsAny(value, " '\\") {
		return value
	}
	escaped := strings.ReplaceAll(value, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "'", "\\'")
	return "'" + escaped + "'"
}

package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: 5432, User: "restaurant", Password: "s3cret/1",
		Database: "orders", SSLMode: "disable", MaxConns: 4,
	}
	dsn := DSN(cfg)
	assert.Contains(t, dsn, "postgres://restaurant:")
	assert.Contains(t, dsn, "@db:5432/orders")

	parsed, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db", parsed.ConnConfig.Host)
	assert.Equal(t, "s3cret/1", parsed.ConnConfig.Password)
	assert.Equal(t, "orders", parsed.ConnConfig.Database)
	assert.EqualValues(t, 4, parsed.MaxConns)
}

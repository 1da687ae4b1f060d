package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque/pkg/config"
)

func fixedResolver(ip string) Resolver {
	return func(context.Context, string) (string, error) { return ip, nil }
}

func noIPv4(context.Context, string) (string, error) { return "", errors.New("sin IPv4") }

func TestPoolConfig_CamposSueltos(t *testing.T) {
	cfg := config.DBConfig{Host: "db.local", Port: 6432, User: "app", Password: "s3cr3t", DBName: "estoque", SSLMode: "disable"}

	pc, err := PoolConfig(context.Background(), cfg, fixedResolver("10.0.0.7"))

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6432), pc.ConnConfig.Port)
	assert.Equal(t, "app", pc.ConnConfig.User)
	assert.Equal(t, "s3cr3t", pc.ConnConfig.Password)
	assert.Equal(t, "estoque", pc.ConnConfig.Database)
	assert.Equal(t, int32(defaultMaxConns), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.NotNil(t, pc.AfterConnect, "registra el codec decimal")
	assert.NotNil(t, pc.ConnConfig.DialFunc)
}

func TestPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgresql://u:p@db.supabase.co/postgres?sslmode=disable",
		Host:        "ignorado",
		MaxConns:    1,
	}

	pc, err := PoolConfig(context.Background(), cfg, noIPv4)

	require.NoError(t, err)
	assert.Equal(t, "db.supabase.co", pc.ConnConfig.Host, "sin IPv4 queda el hostname")
	assert.Equal(t, uint16(5432), pc.ConnConfig.Port)
	assert.Equal(t, "postgres", pc.ConnConfig.Database)
	assert.Equal(t, int32(1), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns, "MinConns no supera MaxConns")
}

func TestPoolConfig_SinResolver(t *testing.T) {
	pc, err := PoolConfig(context.Background(), config.DBConfig{DatabaseURL: "postgres://u:p@localhost:5433/x"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "localhost", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := PoolConfig(context.Background(), config.DBConfig{DatabaseURL: "postgres://u:p@host:notaport/x"}, nil)

	assert.Error(t, err)
}

func TestPreferIPv4(t *testing.T) {
	got, err := preferIPv4(context.Background(), "postgres://u:p@db:5432/x?sslmode=require", fixedResolver("192.168.1.2"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@192.168.1.2:5432/x?sslmode=require", got)

	got, err = preferIPv4(context.Background(), "postgres://u:p@db/x", fixedResolver("192.168.1.2"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@192.168.1.2:5432/x", got, "puerto por defecto")
}

func TestLookupIPv4_Literal(t *testing.T) {
	ip, err := LookupIPv4(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	_, err = LookupIPv4(context.Background(), "::1")
	assert.Error(t, err)
}

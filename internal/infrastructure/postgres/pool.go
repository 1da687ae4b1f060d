package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/estoque/pkg/config"
	"github.com/jhoicas/estoque/pkg/logger"
)

const defaultMaxConns = 25

// Resolver devuelve una IPv4 para host o error si no la hay.
type Resolver func(ctx context.Context, host string) (string, error)

// Open conecta al backend PostgreSQL y devuelve el gateway listo para el contenedor junto con su
// cierre. Falla si la base no responde al ping.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Gateway, func(), error) {
	log = logger.OrNop(log).Named("postgres")

	poolCfg, err := PoolConfig(ctx, cfg, LookupIPv4)
	if err != nil {
		return nil, nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("conectado")

	return NewGateway(pool), func() {
		pool.Close()
		log.Info().Msg("pool cerrado")
	}, nil
}

// PoolConfig arma la configuración del pool. DATABASE_URL tiene prioridad sobre los campos
// sueltos; el host se reemplaza por su IPv4 cuando resolve la encuentra (Docker suele no tener
// IPv6 y Supabase puede publicar sólo AAAA).
func PoolConfig(ctx context.Context, cfg config.DBConfig, resolve Resolver) (*pgxpool.Config, error) {
	dsn, err := preferIPv4(ctx, cfg.ConnectionString(), resolve)
	if err != nil {
		return nil, err
	}
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	pc.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = min(2, pc.MaxConns)
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	if resolve != nil {
		pc.ConnConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			var d net.Dialer
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			if ip, err := resolve(ctx, host); err == nil {
				return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
			}
			return d.DialContext(ctx, network, addr)
		}
	}

	// NUMERIC -> decimal.Decimal en todas las conexiones
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}

// preferIPv4 reescribe el host del DSN con su IPv4. Sin resolve o sin IPv4 deja el DSN intacto.
func preferIPv4(ctx context.Context, dsn string, resolve Resolver) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse DSN: %w", err)
	}
	if resolve == nil || u.Hostname() == "" {
		return dsn, nil
	}
	ip, err := resolve(ctx, u.Hostname())
	if err != nil {
		return dsn, nil
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String(), nil
}

// LookupIPv4 resolve con el resolver del sistema y, si no hay registro A, con DNS público.
func LookupIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host, nil
		}
		return "", fmt.Errorf("%s es IPv6", host)
	}
	if ip, err := firstIPv4(ctx, net.DefaultResolver, host); err == nil {
		return ip, nil
	}
	public := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", "8.8.8.8:53")
		},
	}
	return firstIPv4(ctx, public, host)
}

func firstIPv4(ctx context.Context, r *net.Resolver, host string) (string, error) {
	ips, err := r.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip.String(), nil
		}
	}
	return "", fmt.Errorf("%s sin IPv4", host)
}

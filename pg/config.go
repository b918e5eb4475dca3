package pg

import (
	"fmt"
	"time"
)

// Config points the SQL loader at a PostgreSQL database.
type Config struct {
	// Debug logs every query through the store.sql logger.
	Debug bool `yaml:"debug"`

	Host     string `yaml:"host"     validate:"required"`
	Port     int    `yaml:"port"     default:"5432" validate:"required"`
	User     string `yaml:"user"     validate:"required"`
	Password string `yaml:"password" validate:"required" mask:"true"`
	Database string `yaml:"database" validate:"required"`

	SSLMode        string        `yaml:"sslmode"         default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`

	// The loader reads the catalog once at startup, so a small pool is enough.
	PoolMaxConns        int32         `yaml:"pool_max_conns"          default:"2"`
	PoolMaxConnLifetime time.Duration `yaml:"pool_max_conn_lifetime"  default:"1h"`
	PoolMaxConnIdleTime time.Duration `yaml:"pool_max_conn_idle_time" default:"5m"`
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode, int(c.ConnectTimeout.Seconds()),
	)
}

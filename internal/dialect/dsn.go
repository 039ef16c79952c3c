// Package dialect holds MySQL connection and server capability helpers.
package dialect

import (
	"fmt"
	"maps"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Charset is the connection charset every DSN is normalized to.
const Charset = "utf8mb4"

// ConnectionConfig describes a MySQL server connection.
type ConnectionConfig struct {
	Host     string            `yaml:"host" json:"host"`
	Port     int               `yaml:"port" json:"port"`
	User     string            `yaml:"user" json:"user"`
	Password string            `yaml:"password" json:"-"`
	Database string            `yaml:"database" json:"database"`
	Params   map[string]string `yaml:"params" json:"params,omitempty"`
}

// DSN builds a go-sql-driver/mysql DSN with utf8mb4 and parseTime enabled.
// Host defaults to localhost and port to 3306.
func (c ConnectionConfig) DSN() (string, error) {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 3306
	}

	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)
	cfg.DBName = c.Database
	cfg.ParseTime = true
	if err := cfg.Apply(mysql.Charset(Charset, "")); err != nil {
		return "", fmt.Errorf("build dsn: %w", err)
	}
	if len(c.Params) > 0 {
		cfg.Params = make(map[string]string, len(c.Params))
		maps.Copy(cfg.Params, c.Params)
	}
	return cfg.FormatDSN(), nil
}

// NormalizeDSN parses dsn, forces the utf8mb4 charset and parseTime, and
// reformats it. A utf8mb4 collation is kept; any other collation is dropped.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("normalize dsn: %w", err)
	}

	collation := cfg.Collation
	if !strings.HasPrefix(collation, Charset+"_") {
		collation = ""
	}
	if err := cfg.Apply(mysql.Charset(Charset, collation)); err != nil {
		return "", fmt.Errorf("normalize dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

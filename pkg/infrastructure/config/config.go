package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "sales"

type Config struct {
	ServeRESTAddress string `envconfig:"serve_rest_address" default:":8080"`
	DBHost           string `envconfig:"db_host" default:"localhost"`
	DBPort           string `envconfig:"db_port" default:"3306"`
	DBName           string `envconfig:"db_name" default:"salesrecords"`
	DBUser           string `envconfig:"db_user" default:"sales"`
	DBPassword       string `envconfig:"db_password" default:"sales"`
	DBMaxConns       int    `envconfig:"db_max_conns" default:"8"`
}

func Parse() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DSN builds the mysql connection string. parseTime is required so DATETIME
// columns scan into time.Time.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

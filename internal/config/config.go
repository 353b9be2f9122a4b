package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvTest = "test"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	UI       UIConfig       `yaml:"ui"`

	// EnvFileLoaded reports whether a .env file was found in the working directory.
	EnvFileLoaded bool `yaml:"-"`
}

type AppConfig struct {
	Env string `yaml:"env"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	TestName string `yaml:"test_name"`
	SSLMode  string `yaml:"sslmode"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type UIConfig struct {
	Port   string `yaml:"port"`
	APIURL string `yaml:"api_url"`
}

func defaults() *Config {
	return &Config{
		App:    AppConfig{Env: "development"},
		Server: ServerConfig{Port: "4000"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Name:     "subscriptions",
			TestName: "subscriptions_test",
			SSLMode:  "disable",
		},
		Store: StoreConfig{Driver: DriverPostgres},
		Log:   LogConfig{Level: "info"},
		CORS:  CORSConfig{AllowedOrigins: []string{"*"}},
		UI: UIConfig{
			Port:   "3000",
			APIURL: "http://localhost:4000/api/subscriptions",
		},
	}
}

// LoadConfig reads the optional .env file and YAML file at path, then applies
// environment overrides. Missing files are not an error; malformed ones are.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()

	switch err := godotenv.Load(); {
	case err == nil:
		cfg.EnvFileLoaded = true
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.App.Env, "APP_ENV")
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Port, "SERVER_PORT")

	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.TestName, "DB_TEST_NAME")
	setString(&c.Database.SSLMode, "DB_SSL_MODE")
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.Database.Port = port
	}

	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}

	setString(&c.UI.Port, "UI_PORT")
	setString(&c.UI.APIURL, "API_URL")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DatabaseName picks the test database when running in the test environment.
func (c *Config) DatabaseName() string {
	if c.App.Env == EnvTest && c.Database.TestName != "" {
		return c.Database.TestName
	}
	return c.Database.Name
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	db := c.Database
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, c.DatabaseName(), db.SSLMode)
	if db.Password != "" {
		dsn += " password=" + quoteDSNValue(db.Password)
	}
	return dsn
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quoteDSNValue quotes a key/value connection string value as libpq expects.
func quoteDSNValue(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

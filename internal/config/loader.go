package config

import (
	"fmt"

	"referenciales-api/internal/db"

	"github.com/spf13/viper"
)

// Server holds the HTTP listener settings.
type Server struct {
	Addr           string
	AllowedOrigins []string
	MigrationsPath string
}

// DefaultServer returns the HTTP defaults used when nothing is configured.
func DefaultServer() Server {
	return Server{
		Addr:           ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		MigrationsPath: "./migrations",
	}
}

func LoadDBConfig(configPath string) (db.Config, error) {
	// Start with default
	cfg := db.DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()     // allow environment overrides
	v.SetEnvPrefix("DB") // map env vars like DB_HOST, DB_PORT

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.SSLMode = v.GetString("database.sslmode")
	}

	return cfg, nil
}

// LoadServerConfig reads HTTP settings from config.yaml and SERVER_* env vars.
func LoadServerConfig(configPath string) (Server, error) {
	cfg := DefaultServer()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("SERVER")

	v.BindEnv("server.addr")
	v.BindEnv("server.allowed_origins")
	v.BindEnv("server.migrations_path")

	if err := v.ReadInConfig(); err == nil {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("server.migrations_path") {
		cfg.MigrationsPath = v.GetString("server.migrations_path")
	}

	return cfg, nil
}

package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env             string // DEV (local; default), TEST, QA, PROD
		Debug           bool
		TestMode        bool
		AppName         string
		Build           string
		SecretKey       string
		FrontendBaseURL string
		AdminEmail      string
		SendgridApiKey  string
		RollbarToken    string

		defaultFromName  string
		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Storage  StorageConfig
	}

	ServerConfig struct {
		Address                   string
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		PasswordResetTimeoutDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite3
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite3 only
	}

	StorageConfig struct {
		Backend       string // local | s3
		LocalDir      string
		BaseURL       string
		MaxUploadSize int64
		S3Bucket      string
		S3Region      string
		S3BaseURL     string
		S3AccessKey   string
		S3SecretKey   string
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.defaultFromName, Address: c.defaultFromEmail}
}

// Address returns the database "host:port".
func (c DatabaseConfig) Address() string {
	if c.Port == "" {
		return c.Host
	}
	return c.Host + ":" + c.Port
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` and the environment.
// Environment variables are prefixed with the current env, e.g. `PROD_SECRETKEY`.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "IT Services")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "x8!q2k#d0-v6@t$ms1e+r9wz^h4(j7)lp&c3n*b5yfu")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("adminEmail", "admin@localhost")
	v.SetDefault("defaultFromName", "IT Services")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 30*24*time.Hour)
	v.SetDefault("server.passwordResetTimeoutDelta", 3*24*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "itsite")
	v.SetDefault("database.user", "itsite")
	v.SetDefault("database.password", "itsite")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", env == "DEV" || env == "TEST")
	v.SetDefault("database.path", "itsite.db")

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.localDir", "uploads")
	v.SetDefault("storage.baseURL", "/uploads")
	v.SetDefault("storage.maxUploadSize", int64(10<<20))
	v.SetDefault("storage.s3Bucket", "")
	v.SetDefault("storage.s3Region", "eu-central-1")
	v.SetDefault("storage.s3BaseURL", "")
	v.SetDefault("storage.s3AccessKey", "")
	v.SetDefault("storage.s3SecretKey", "")

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		Build:           v.GetString("build"),
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: strings.TrimSuffix(v.GetString("frontendBaseURL"), "/"),
		AdminEmail:      v.GetString("adminEmail"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),

		defaultFromName:  v.GetString("defaultFromName"),
		defaultFromEmail: v.GetString("defaultFromEmail"),

		Server: ServerConfig{
			Address:                   v.GetString("server.address"),
			Host:                      v.GetString("server.host"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
			PasswordResetTimeoutDelta: v.GetDuration("server.passwordResetTimeoutDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Path:          v.GetString("database.path"),
		},
		Storage: StorageConfig{
			Backend:       v.GetString("storage.backend"),
			LocalDir:      v.GetString("storage.localDir"),
			BaseURL:       strings.TrimSuffix(v.GetString("storage.baseURL"), "/"),
			MaxUploadSize: v.GetInt64("storage.maxUploadSize"),
			S3Bucket:      v.GetString("storage.s3Bucket"),
			S3Region:      v.GetString("storage.s3Region"),
			S3BaseURL:     v.GetString("storage.s3BaseURL"),
			S3AccessKey:   v.GetString("storage.s3AccessKey"),
			S3SecretKey:   v.GetString("storage.s3SecretKey"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: no file or environment lookups.
func NewTestConfig() *Config {
	return &Config{
		Env:             "TEST",
		TestMode:        true,
		AppName:         "IT Services",
		Build:           "test",
		SecretKey:       "secret",
		FrontendBaseURL: "http://localhost:3000",
		AdminEmail:      "admin@test.test",

		defaultFromName:  "IT Services",
		defaultFromEmail: "noreply@test.test",

		Server: ServerConfig{
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		},
		Database: DatabaseConfig{Engine: "sqlite3", Path: ":memory:"},
		Storage:  StorageConfig{Backend: "local", BaseURL: "/uploads", MaxUploadSize: 1 << 20},
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (env=%s, build=%s, db=%s, storage=%s)", c.AppName, c.Env, c.Build, c.Database.Engine, c.Storage.Backend)
}

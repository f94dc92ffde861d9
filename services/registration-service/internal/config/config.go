package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vasapolrittideah/member-registry/shared/mailer"
)

// RegistrationServiceConfig holds every setting of the registration service.
type RegistrationServiceConfig struct {
	ServiceName  string             `env:"SERVICE_NAME" envDefault:"registration-service"`
	Log          LogConfig          `envPrefix:"LOG_"`
	HTTP         HTTPConfig         `envPrefix:"HTTP_"`
	GRPC         GRPCConfig         `envPrefix:"GRPC_"`
	Mongo        MongoConfig        `envPrefix:"MONGO_"`
	Cognito      CognitoConfig      `envPrefix:"COGNITO_"`
	Registration RegistrationConfig `envPrefix:"REGISTRATION_"`
	Reconcile    ReconcileConfig    `envPrefix:"RECONCILE_"`
	Token        TokenConfig        `envPrefix:"TOKEN_"`
	SMTP         SMTPConfig         `envPrefix:"SMTP_"`
	Kafka        KafkaConfig        `envPrefix:"KAFKA_"`
	Consul       ConsulConfig       `envPrefix:"CONSUL_"`
}

type LogConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	Pretty bool   `env:"PRETTY" envDefault:"false"`
}

type HTTPConfig struct {
	Addr            string        `env:"ADDR"             envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type GRPCConfig struct {
	Addr string `env:"ADDR" envDefault:":9090"`
}

type MongoConfig struct {
	URI            string        `env:"URI"`
	Database       string        `env:"DATABASE"        envDefault:"members"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

type CognitoConfig struct {
	Region     string `env:"REGION"`
	UserPoolID string `env:"USER_POOL_ID"`
	Endpoint   string `env:"ENDPOINT"`
}

// RegistrationConfig holds the defaults applied to new profiles.
type RegistrationConfig struct {
	DefaultGroups []string `env:"DEFAULT_GROUPS" envDefault:"users" envSeparator:","`
	DefaultAvatar string   `env:"DEFAULT_AVATAR" envDefault:"avatars/default.png"`
	ActivationURL string   `env:"ACTIVATION_URL" envDefault:"http://localhost:3000/activate"`
}

// ReconcileConfig controls the orphan identity reconciliation job.
type ReconcileConfig struct {
	Interval      time.Duration `env:"INTERVAL"       envDefault:"0s"`
	GracePeriod   time.Duration `env:"GRACE_PERIOD"   envDefault:"15m"`
	DeleteOrphans bool          `env:"DELETE_ORPHANS" envDefault:"false"`
}

type TokenConfig struct {
	Issuer      string `env:"ISSUER"       envDefault:"member-registry"`
	Audience    string `env:"AUDIENCE"     envDefault:"member-registry-admin"`
	AdminSecret string `env:"ADMIN_SECRET"`
}

type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"     envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// Enabled reports whether activation mail should be sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Mailer converts the settings to the mailer package configuration.
func (c SMTPConfig) Mailer() mailer.Config {
	return mailer.Config{
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
	}
}

type KafkaConfig struct {
	Brokers      []string      `env:"BROKERS"       envSeparator:","`
	Topic        string        `env:"TOPIC"         envDefault:"profile.created"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether registration events should be published.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type ConsulConfig struct {
	Addr           string `env:"ADDR"`
	ServiceID      string `env:"SERVICE_ID"`
	ServiceAddress string `env:"SERVICE_ADDRESS" envDefault:"127.0.0.1"`
	ServicePort    int    `env:"SERVICE_PORT"    envDefault:"9090"`
}

// Enabled reports whether the service registers itself in Consul.
func (c ConsulConfig) Enabled() bool {
	return c.Addr != ""
}

// Load reads the configuration from environment variables and validates it.
func Load() (*RegistrationServiceConfig, error) {
	cfg, err := env.ParseAs[RegistrationServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *RegistrationServiceConfig) validate() error {
	var missing []string

	if c.Mongo.URI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.Cognito.Region == "" {
		missing = append(missing, "COGNITO_REGION")
	}
	if c.Cognito.UserPoolID == "" {
		missing = append(missing, "COGNITO_USER_POOL_ID")
	}
	if c.Token.AdminSecret == "" {
		missing = append(missing, "TOKEN_ADMIN_SECRET")
	}
	if len(c.Registration.DefaultGroups) == 0 {
		missing = append(missing, "REGISTRATION_DEFAULT_GROUPS")
	}

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if c.SMTP.Enabled() {
		if err := c.SMTP.Mailer().Validate(); err != nil {
			return fmt.Errorf("invalid SMTP configuration: %w", err)
		}
	}

	if c.Reconcile.Interval < 0 || c.Reconcile.GracePeriod < 0 {
		return errors.New("reconcile durations must not be negative")
	}

	return nil
}

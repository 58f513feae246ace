// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"tavern/broker/relay"
	"tavern/database/postgres"
	"tavern/media"
	"tavern/storage"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultEnvFile is loaded before the environment is parsed.
const DefaultEnvFile = ".env"

// ErrUnknownDriver is returned for an unsupported database driver.
var ErrUnknownDriver = errors.New("unknown database driver")

// Config is the configuration shared by every command.
type Config struct {
	Database Database `envPrefix:"SERVICE_DATABASE_"`
	Media    Media
	S3       S3 `envPrefix:"S3_"`
	Relay    Relay

	PaymentsCheckerCommand string `env:"PAYMENTS_CHECKER_COMMAND"`
}

// Database selects and configures the game store.
type Database struct {
	Driver   string `env:"DRIVER" envDefault:"postgres"`
	Host     string `env:"HOST" envDefault:"db"`
	Port     int    `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME" envDefault:"dnd"`
	User     string `env:"USER" envDefault:"dude"`
	Password string `env:"PASSWORD"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`
}

// Postgres returns the connection settings.
func (d Database) Postgres() postgres.Config {
	return postgres.Config{
		Host:     d.Host,
		Port:     d.Port,
		Name:     d.Name,
		User:     d.User,
		Password: d.Password,
		SSLMode:  d.SSLMode,
	}
}

// Media configures the video room and the publisher.
type Media struct {
	JanusURL       string   `env:"JANUS_URL" envDefault:"http://janus:8088/janus"`
	TURNServers    []string `env:"TURN_SERVERS" envSeparator:","`
	TURNUsername   string   `env:"TURN_SERVER_USERNAME"`
	TURNCredential string   `env:"TURN_SERVER_CREDENTIAL"`
	STUNServer     string   `env:"STUN_SERVER_URL"`
	MinUDPPort     string   `env:"WEBRTC_UDP_PORT_MIN"`
	MaxUDPPort     string   `env:"WEBRTC_UDP_PORT_MAX"`
	FFmpegPath     string   `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	Bitrate        int      `env:"MEDIA_BITRATE" envDefault:"2000000"`
}

// Config returns the publisher configuration.
func (m Media) Config() media.Config {
	return media.Config{
		JanusURL:       m.JanusURL,
		TURNServers:    m.TURNServers,
		TURNUsername:   m.TURNUsername,
		TURNCredential: m.TURNCredential,
		STUNServer:     m.STUNServer,
		MinUdpPort:     m.MinUDPPort,
		MaxUdpPort:     m.MaxUDPPort,
		FFmpegPath:     m.FFmpegPath,
		Bitrate:        m.Bitrate,
	}
}

// S3 configures the object storage of uploaded media.
type S3 struct {
	Bucket          string `env:"BUCKET_NAME"`
	EndpointURL     string `env:"ENDPOINT_URL"`
	Region          string `env:"REGION_NAME"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
}

// Config returns the storage configuration.
func (s S3) Config() storage.Config {
	return storage.Config{
		Bucket:          s.Bucket,
		EndpointURL:     s.EndpointURL,
		Region:          s.Region,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
	}
}

// Relay configures the event relay between instances.
type Relay struct {
	Kind         string   `env:"EVENTS_RELAY" envDefault:"none"`
	AMQPURL      string   `env:"AMQP_URL"`
	Exchange     string   `env:"AMQP_EXCHANGE"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"`
}

// Config returns the relay configuration.
func (r Relay) Config() relay.Config {
	return relay.Config{
		Kind:         r.Kind,
		AMQPURL:      r.AMQPURL,
		Exchange:     r.Exchange,
		KafkaBrokers: r.KafkaBrokers,
		KafkaTopic:   r.KafkaTopic,
	}
}

// Load reads the env files, then parses the environment. A missing file is skipped.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse(env.Options{})
}

// Parse parses the environment described by opts.
func Parse(opts env.Options) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the values the environment parser cannot.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("%q: %w", c.Database.Driver, ErrUnknownDriver)
	}
	switch c.Relay.Kind {
	case relay.KindNone, relay.KindRabbitMQ, relay.KindKafka:
	default:
		return fmt.Errorf("%q: %w", c.Relay.Kind, relay.ErrUnknownKind)
	}
	return nil
}

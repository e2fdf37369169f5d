package internal

import (
	"chat-widget/errors"
	"chat-widget/services"
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
)

type Config struct {
	Collection             string        `env:"CHAT_COLLECTION"`
	AllowDefaultCollection bool          `env:"CHAT_ALLOW_DEFAULT_COLLECTION,default=false"`
	User                   string        `env:"CHAT_USER"`
	Mute                   bool          `env:"CHAT_MUTE,default=false"`
	RequireSender          bool          `env:"CHAT_REQUIRE_SENDER,default=true"`
	EmptyBodyPolicy        string        `env:"CHAT_EMPTY_BODY_POLICY,default=ignore"`
	WithStars              bool          `env:"CHAT_WITH_STARS,default=true"`
	WithRecipients         bool          `env:"CHAT_WITH_RECIPIENTS,default=true"`
	WithSound              bool          `env:"CHAT_WITH_SOUND,default=true"`
	WithDownload           bool          `env:"CHAT_WITH_DOWNLOAD,default=true"`
	WithRaiseHand          bool          `env:"CHAT_WITH_RAISE_HAND,default=true"`
	ExportDir              string        `env:"EXPORT_DIR,default=."`
	BadgerFilepath         string        `env:"BADGER_FILEPATH"`
	LimitMessages          *int          `env:"LIMIT_MESSAGES"`
	BufferSize             int           `env:"BUFFER_SIZE,default=64"`
	SinkTimeout            time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval        time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	LogLevel               string        `env:"LOG_LEVEL,default=INFO"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, errors.ConfigurationError{Err: err}
	}
	if config.BadgerFilepath == "" {
		config.BadgerFilepath = database.DefaultPath
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate fails fast on settings a session cannot start with.
func (c Config) Validate() error {
	if c.Collection == "" && !c.AllowDefaultCollection {
		return errors.ConfigurationError{Err: errors.ErrMissingCollection}
	}
	if _, err := services.ParseEmptyBodyPolicy(c.EmptyBodyPolicy); err != nil {
		return errors.ConfigurationError{Err: err}
	}
	if c.BufferSize <= 0 {
		return errors.ConfigurationError{Err: fmt.Errorf("BUFFER_SIZE must be positive, got %d", c.BufferSize)}
	}
	return nil
}

func (c Config) Capabilities() services.Capabilities {
	return services.Capabilities{
		Stars:      c.WithStars,
		Recipients: c.WithRecipients,
		Sound:      c.WithSound,
		Download:   c.WithDownload,
		RaiseHand:  c.WithRaiseHand,
	}
}

func (c Config) SessionOptions() services.SessionOptions {
	return services.SessionOptions{
		Collection:             c.Collection,
		AllowDefaultCollection: c.AllowDefaultCollection,
		LocalUser:              c.User,
		Muted:                  c.Mute,
		Capabilities:           c.Capabilities(),
	}
}

// OutboxOptions must be built from the session collection, which already
// accounts for the default name.
func (c Config) OutboxOptions(collection string) services.OutboxOptions {
	policy, _ := services.ParseEmptyBodyPolicy(c.EmptyBodyPolicy)
	return services.OutboxOptions{
		Collection:    collection,
		RequireSender: c.RequireSender,
		EmptyBody:     policy,
		RaiseHand:     c.WithRaiseHand,
	}
}

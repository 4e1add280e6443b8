package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "IKIT_"

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	News    NewsConfig    `koanf:"news"`
	Log     LogConfig     `koanf:"log"`
}

type ServerConfig struct {
	Addr         string        `koanf:"addr"          validate:"required,hostname_port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
	CookieName   string        `koanf:"cookie_name"   validate:"required"`
	CookieSecure bool          `koanf:"cookie_secure"`

	// IdleTTL is how long comment threads and unread notifications of an
	// inactive session are kept. SweepInterval zero disables the sweep.
	IdleTTL       time.Duration `koanf:"idle_ttl"       validate:"gt=0"`
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"gte=0"`
}

type StorageConfig struct {
	RedisAddr  string        `koanf:"redis_addr"  validate:"omitempty,hostname_port"`
	RedisTTL   time.Duration `koanf:"redis_ttl"   validate:"gte=0"`
	BadgerPath string        `koanf:"badger_path"`
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval" validate:"gte=0"`
}

type NewsConfig struct {
	ArticlesFile string `koanf:"articles_file"`
}

type LogConfig struct {
	Level       string `koanf:"level" validate:"oneof=debug info warn error"`
	Development bool   `koanf:"development"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			CookieName:   "ikit_session",

			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Storage: StorageConfig{
			BadgerPath: "./badger-data",
			GCInterval: 5 * time.Minute,
		},
		News: NewsConfig{
			ArticlesFile: "articles.json",
		},
		Log: LogConfig{
			Level:       "info",
			Development: true,
		},
	}
}

// Loader builds a Config from defaults, environment and explicit overrides.
type Loader struct {
	k       *koanf.Koanf
	environ func() []string
}

func NewLoader() *Loader {
	return &Loader{k: koanf.New(".")}
}

// Set records an override that wins over defaults and environment.
// Keys use koanf paths such as "server.addr".
func (l *Loader) Set(key string, value any) error {
	return l.k.Set(key, value)
}

// Load merges defaults, IKIT_* environment variables and previously Set
// overrides, then validates the result.
func (l *Loader) Load() (*Config, error) {
	overrides := l.k.All()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	opt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}
	if l.environ != nil {
		opt.EnvironFunc = l.environ
	}
	if err := k.Load(env.Provider(".", opt), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply override %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// transformEnvKey maps IKIT_STORAGE_REDIS_ADDR to storage.redis_addr.
func transformEnvKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' })
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], value
	}
	return parts[0] + "." + strings.Join(parts[1:], "_"), value
}

// Validate checks field constraints and that some storage backend is set.
func Validate(cfg *Config) error {
	v := validator.New()
	v.RegisterStructValidation(validateStorage, StorageConfig{})
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validateStorage(sl validator.StructLevel) {
	s := sl.Current().Interface().(StorageConfig)
	if s.RedisAddr == "" && s.BadgerPath == "" && !s.InMemory {
		sl.ReportError(s.BadgerPath, "BadgerPath", "badger_path", "backend_required", "")
	}
}

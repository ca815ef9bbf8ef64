package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	secretFileSuffix = "_FILE"
	defaultConfigDir = "configs"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir sets the directory holding base.yaml and the profile files.
// Defaults to "configs" relative to the working directory.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// Load builds the configuration for profile from these layers, later ones
// overriding earlier ones:
//
//  1. built-in defaults
//  2. {configDir}/base.yaml
//  3. {configDir}/{profile}.yaml
//  4. APP_ environment variables
//  5. APP_*_FILE variables naming a file whose content is the value
//
// Variables are matched against the keys known after the file layers so
// underscores inside a key survive:
//
//	APP_SERVER_READ_TIMEOUT               -> server.read_timeout
//	APP_CLIENTS_MAIL_RETRY_MAX_ATTEMPTS   -> clients.mail.retry.max_attempts
//	APP_CLIENTS_PUSHOVER_TOKEN_FILE=/run/secrets/pushover -> clients.pushover.token
//
// Seed users are a list and can only be set in the YAML files.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), ""), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	for _, name := range []string{"base", profile} {
		path := filepath.Join(o.configDir, name+".yaml")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s config %s: %w", name, path, err)
		}
	}

	known := envKeys(k.Keys())
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(name, value string) (string, any) {
			if strings.HasSuffix(name, secretFileSuffix) {
				return "", nil
			}
			return resolveEnvKey(name, known), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := loadSecretFiles(k, known, os.Environ()); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// validateProfile rejects empty profiles and anything that could escape the
// config directory.
func validateProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

// envKeys maps the underscore form of every known key ("server_read_timeout")
// to the dotted key ("server.read_timeout").
func envKeys(keys []string) map[string]string {
	m := make(map[string]string, len(keys))
	for _, key := range keys {
		m[strings.ReplaceAll(key, ".", "_")] = key
	}
	return m
}

// resolveEnvKey turns APP_SERVER_PORT into server.port. Unknown names fall
// back to replacing every underscore with a dot.
func resolveEnvKey(name string, known map[string]string) string {
	flat := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	if key, ok := known[flat]; ok {
		return key
	}
	return strings.ReplaceAll(flat, "_", ".")
}

// loadSecretFiles reads APP_<KEY>_FILE variables for known keys, so tokens
// can be mounted as files instead of passed in the environment. Trailing
// whitespace in the file is dropped.
func loadSecretFiles(k *koanf.Koanf, known map[string]string, environ []string) error {
	for _, kv := range environ {
		name, path, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) || !strings.HasSuffix(name, secretFileSuffix) {
			continue
		}
		key, ok := known[strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(name, envPrefix), secretFileSuffix))]
		if !ok {
			return fmt.Errorf("%s does not name a known config key", name)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if err := k.Set(key, strings.TrimRight(string(b), " \t\r\n")); err != nil {
			return fmt.Errorf("setting %s from %s: %w", key, name, err)
		}
	}
	return nil
}

// Package config loads the jirash configuration file.
package config

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file, relative to the home directory.
	ConfigFileName = "~/.jirash.json"
	// PathEnvVar overrides the config file location.
	PathEnvVar = "JIRASH_CONFIG"
	// EnvPrefix is the prefix for environment overrides of config vars,
	// e.g. JIRASH_JIRA_URL.
	EnvPrefix = "JIRASH"
)

// Config is the loaded jirash configuration. Credentials are checked lazily
// by Credentials so commands that do not talk to JIRA work without a file.
type Config struct {
	// Path is the file the config was read from (it may not exist).
	Path string

	v *viper.Viper
}

// Credentials holds what is needed to talk to the JIRA server.
type Credentials struct {
	URL      string
	Username string
	Password string
}

// Find returns the config file path: $JIRASH_CONFIG if set, else ~/.jirash.json.
func Find() (string, error) {
	if p := os.Getenv(PathEnvVar); p != "" {
		return ExpandTilde(p)
	}
	return ExpandTilde(ConfigFileName)
}

// Load reads the config at path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	// URLs are used as keys in the legacy format, so "." can't be the delimiter.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range []string{"jira_url", "jira_username", "jira_password"} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{Path: path, v: v}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Cannot access config file %q", path),
			"Check file permissions")
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var perr viper.ConfigParseError
		if stderrors.As(err, &perr) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("%q is invalid JSON", path),
				"Check the JSON syntax of the config file")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to read config file %q", path),
			"Check the file exists and is readable")
	}

	return cfg, nil
}

// LoadDefault finds and loads the config.
func LoadDefault() (*Config, error) {
	path, err := Find()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot locate config file",
			"Set HOME, or point "+PathEnvVar+" at the config file")
	}
	return Load(path)
}

// URL returns the configured jira_url, if any.
func (c *Config) URL() string {
	return c.v.GetString("jira_url")
}

// Credentials returns the server URL and login. The username and password
// may also come from the legacy `{"<url>": {"username": .., "password": ..}}`
// layout.
func (c *Config) Credentials() (Credentials, error) {
	creds := Credentials{URL: c.URL()}
	if creds.URL == "" {
		return creds, c.missing("jira_url")
	}
	if creds.Username = c.lookup("jira_username", "username"); creds.Username == "" {
		return creds, c.missing("jira_username")
	}
	if creds.Password = c.lookup("jira_password", "password"); creds.Password == "" {
		return creds, c.missing("jira_password")
	}
	return creds, nil
}

// Username returns the configured login name, or "" if it isn't set.
func (c *Config) Username() string {
	return c.lookup("jira_username", "username")
}

// lookup reads key, falling back to the legacy per-URL entry.
func (c *Config) lookup(key, legacyKey string) string {
	if val := c.v.GetString(key); val != "" {
		return val
	}
	url := c.URL()
	if url == "" {
		return ""
	}
	return c.v.GetStringMapString(url)[legacyKey]
}

func (c *Config) missing(key string) error {
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("missing %q config var", key),
		fmt.Sprintf("Add %q to %s", key, c.Path))
}

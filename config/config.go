package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
)

const (
	FormatText = "text"
	FormatHTML = "html"

	DefaultHTMLOutput = "tech_update.html"
)

// Settings is the resolved configuration of one invocation. Flags take
// precedence over the environment, which takes precedence over the config
// file.
type Settings struct {
	Format      string
	Output      string
	Catalog     string
	Send        bool
	DryRun      bool
	Workers     int
	Progress    bool
	MetricsFile string
	LogLevel    string

	GitHubToken    string
	ResendAPIKey   string
	ResendURL      string
	SenderEmail    string
	RecipientEmail string
	AWSRegion      string
}

var envKeys = map[string]string{
	"github_token":    "GITHUB_TOKEN",
	"resend_api_key":  "RESEND_API_KEY",
	"resend_api_url":  "RESEND_API_URL",
	"sender_email":    "SENDER_EMAIL",
	"recipient_email": "RECIPIENT_EMAIL",
	"aws_region":      "AWS_REGION",
	"dry-run":         "DRY_RUN",
}

// LoadDotEnv reads .env from the working directory. CI runners provide the
// environment themselves.
func LoadDotEnv() {
	if _, ok := os.LookupEnv("GITHUB_ACTIONS"); ok {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Unable to load .env: %s", err)
	}
}

// Load resolves Settings from flags, the environment and the config file.
// An empty cfgFile means $HOME/.tooltime.yaml, which may be absent.
func Load(flags *pflag.FlagSet, cfgFile string) (*Settings, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, xerrors.Errorf("unable to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(".tooltime")
		v.SetConfigType("yaml")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, xerrors.Errorf("failed to bind %s: %w", env, err)
		}
	}

	v.SetDefault("format", FormatText)
	v.SetDefault("workers", 1)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, xerrors.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, xerrors.Errorf("unable to read config file: %w", err)
		}
	} else {
		log.Debugf("Using config file: %s", v.ConfigFileUsed())
	}

	s := &Settings{
		Format:         strings.ToLower(v.GetString("format")),
		Output:         v.GetString("output"),
		Catalog:        v.GetString("catalog"),
		Send:           v.GetBool("send"),
		DryRun:         v.GetBool("dry-run"),
		Workers:        v.GetInt("workers"),
		Progress:       v.GetBool("progress"),
		MetricsFile:    v.GetString("metrics-file"),
		LogLevel:       v.GetString("log-level"),
		GitHubToken:    v.GetString("github_token"),
		ResendAPIKey:   v.GetString("resend_api_key"),
		ResendURL:      v.GetString("resend_api_url"),
		SenderEmail:    v.GetString("sender_email"),
		RecipientEmail: v.GetString("recipient_email"),
		AWSRegion:      v.GetString("aws_region"),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings and fills in derived defaults.
func (s *Settings) Validate() error {
	switch s.Format {
	case FormatText:
	case FormatHTML:
		if s.Output == "" {
			s.Output = DefaultHTMLOutput
		}
	default:
		return xerrors.Errorf("unknown format %q: want text or html", s.Format)
	}
	if s.Workers < 1 {
		return xerrors.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	return nil
}

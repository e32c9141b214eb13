// Package config loads site settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jagadeeshD3/portfolio/internal/typing"
)

type Config struct {
	Port    string `yaml:"port" validate:"required,numeric"`
	DataDir string `yaml:"data_dir" validate:"required"`
	// Release switches gin to release mode and hides dev-only logging.
	Release bool `yaml:"release"`

	Log       Log       `yaml:"log"`
	Mail      Mail      `yaml:"mail"`
	Admin     Admin     `yaml:"admin"`
	Editor    Editor    `yaml:"editor"`
	Transform Transform `yaml:"transform"`
	Retention Retention `yaml:"retention"`

	ContentFile string `yaml:"content_file"`
	ResumeFile  string `yaml:"resume_file" validate:"required"`
	ResumeName  string `yaml:"resume_name" validate:"required"`
	StaticDir   string `yaml:"static_dir"`
	ImagesDir   string `yaml:"images_dir"`
}

type Log struct {
	Level         string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	HumanReadable bool   `yaml:"human_readable"`
	File          string `yaml:"file"`
	MaxSizeMB     int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups    int    `yaml:"max_backups" validate:"gte=0"`
}

type Mail struct {
	Host    string        `yaml:"host" validate:"required,hostname"`
	Port    string        `yaml:"port" validate:"required,numeric"`
	User    string        `yaml:"user"`
	Pass    string        `yaml:"pass"`
	To      string        `yaml:"to" validate:"omitempty,email"`
	Timeout time.Duration `yaml:"timeout"`
}

type Admin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Editor struct {
	QuietPeriod time.Duration `yaml:"quiet_period" validate:"gte=0"`
	Tagline     string        `yaml:"tagline"`
	Typing      typing.Config `yaml:"typing"`
}

type Transform struct {
	Command []string      `yaml:"command"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	Dir     string        `yaml:"dir"`
}

type Retention struct {
	Schedule string `yaml:"schedule" validate:"required"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:    "8080",
		DataDir: "data",
		Log:     Log{Level: "info", HumanReadable: true},
		Mail: Mail{
			Host:    "smtp.gmail.com",
			Port:    "587",
			Timeout: 30 * time.Second,
		},
		Editor: Editor{
			QuietPeriod: 300 * time.Millisecond,
			Typing:      typing.DefaultConfig(),
		},
		Transform: Transform{
			Command: []string{"node", "scripts/chainsafe.mjs"},
			Timeout: 10 * time.Second,
		},
		Retention:  Retention{Schedule: "@daily"},
		ResumeFile: "documents/resume.pdf",
		ResumeName: "Jagadeesh_Resume.pdf",
		StaticDir:  "static",
		ImagesDir:  "images",
	}
}

// Load reads path (if not empty) over the defaults, then applies environment
// overrides, then validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.Port, "PORT")
	set(&c.DataDir, "DATA_DIR")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.File, "LOG_FILE")
	set(&c.Mail.Host, "SMTP_HOST")
	set(&c.Mail.Port, "SMTP_PORT")
	set(&c.Mail.User, "SMTP_USER", "GMAIL_USER")
	set(&c.Mail.Pass, "SMTP_PASS", "GMAIL_APP_PASSWORD")
	set(&c.Mail.To, "TO_EMAIL")
	set(&c.Admin.Username, "ADMIN_USERNAME")
	set(&c.Admin.Password, "ADMIN_PASSWORD")
	set(&c.ContentFile, "CONTENT_FILE")
	set(&c.ResumeFile, "RESUME_FILE")

	if v := getenv("GIN_MODE"); v == "release" {
		c.Release = true
	}
	if v := getenv("TRANSFORM_COMMAND"); v != "" {
		c.Transform.Command = strings.Fields(v)
	}
	if v := getenv("TRANSFORM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TRANSFORM_TIMEOUT: %w", err)
		}
		c.Transform.Timeout = d
	}
	if v := getenv("LOG_HUMAN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_HUMAN: %w", err)
		}
		c.Log.HumanReadable = b
	}

	// Messages go to the account that sends them unless told otherwise.
	if c.Mail.To == "" {
		c.Mail.To = c.Mail.User
	}
	return nil
}

// Validate checks field constraints and reports them in one error.
func (c Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

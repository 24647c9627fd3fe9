package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Moodle
	MoodleURL      string        `validate:"required,url"`
	MoodleUsername string        `validate:"required"`
	MoodlePassword string        `validate:"required"`
	MoodleService  string        `validate:"required"`
	MoodleTimeout  time.Duration `validate:"gt=0"`
	MoodleTimezone string        `validate:"omitempty,timezone"`

	// Run
	RunTimeout       time.Duration `validate:"gt=0"`
	FetchConcurrency int           `validate:"gte=0,lte=64"`

	// SFTP
	SFTPHost                  string
	SFTPPort                  int `validate:"gte=0,lte=65535"`
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

// fileConfig is the Pache.json layout. Env values win over it.
type fileConfig struct {
	Moodle struct {
		AppURL string `json:"AppURL"`
	} `json:"Moodle"`
	Account struct {
		Username string `json:"Username"`
		Password string `json:"Password"`
	} `json:"Account"`
}

// LoadDotEnv reads .env and .env.local when present. Variables already set
// in the process environment are not overridden.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the config from PACHE_CONFIG (optional JSON file) and the
// environment.
func Load() (Config, error) {
	var fc fileConfig
	if p := os.Getenv("PACHE_CONFIG"); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", p, err)
		}
		if err := json.Unmarshal(b, &fc); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", p, err)
		}
	}

	return Config{
		// Moodle
		MoodleURL:      strings.TrimRight(getenv("MOODLE_URL", fc.Moodle.AppURL), "/"),
		MoodleUsername: getenv("MOODLE_USERNAME", fc.Account.Username),
		MoodlePassword: getenv("MOODLE_PASSWORD", fc.Account.Password),
		MoodleService:  getenv("MOODLE_SERVICE", "moodle_mobile_app"),
		MoodleTimeout:  getenvDuration("MOODLE_TIMEOUT", 30*time.Second),
		MoodleTimezone: os.Getenv("MOODLE_TIMEZONE"),

		// Run
		RunTimeout:       getenvDuration("RUN_TIMEOUT", 5*time.Minute),
		FetchConcurrency: getenvInt("FETCH_CONCURRENCY", 0),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", false),
	}, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every invalid field in one error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, ", "))
}

// Location resolves MoodleTimezone; empty means the host's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.MoodleTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.MoodleTimezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.MoodleTimezone, err)
	}
	return loc, nil
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getenvDuration accepts Go durations ("45s") or bare seconds ("45").
func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

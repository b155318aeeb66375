package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	Version int             `yaml:"version" json:"version"`
	Send    SendSettings    `yaml:"send" json:"send"`
	Logging LogSettings     `yaml:"logging" json:"logging"`
	Control ControlSettings `yaml:"control" json:"control"`
}

type SendSettings struct {
	// Method is one of sendinput, keybd_event, xtest, robotgo, dryrun.
	// Empty picks the platform default.
	Method  string `yaml:"method" json:"method"`
	DelayMs int    `yaml:"delay_ms" json:"delay_ms"`
	// HoldMs is nil when unset; 0 is a valid hold.
	HoldMs  *int   `yaml:"hold_ms" json:"hold_ms"`
	Ctrl    bool   `yaml:"ctrl" json:"ctrl"`
	Shift   bool   `yaml:"shift" json:"shift"`
	Alt     bool   `yaml:"alt" json:"alt"`
}

// LogSettings: if File is set, logs go there (with rotation). Else if Dir is
// set, logs go to Dir/fkeysender.log. With neither, stderr only.
type LogSettings struct {
	Level    string `yaml:"level" json:"level"`
	File     string `yaml:"file" json:"file"`
	Dir      string `yaml:"dir" json:"dir"`
	RotateMB int    `yaml:"rotate_mb" json:"rotate_mb"` // default 10
	Keep     int    `yaml:"keep" json:"keep"`           // default 10
	Stderr   *bool  `yaml:"stderr" json:"stderr"`       // default true
	Redact   *bool  `yaml:"redact" json:"redact"`       // default true
	System   bool   `yaml:"system" json:"system"`       // Event Log / syslog
}

type ControlSettings struct {
	ListenAddr  string `yaml:"listen_addr" json:"listen_addr"`
	TokenHeader string `yaml:"token_header" json:"token_header"`
	// TokenHash is a bcrypt hash; the token itself is never written here.
	TokenHash string `yaml:"token_hash" json:"token_hash"`
}

const (
	DefaultHoldMs      = 100
	DefaultListenAddr  = "127.0.0.1:60780"
	DefaultTokenHeader = "X-FKeySender-Token"
)

// DefaultPath is fkeysender.yaml in the user config dir, or in the working
// directory when there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "fkeysender.yaml"
	}
	return filepath.Join(dir, "fkeysender", "fkeysender.yaml")
}

// Load reads a .yaml/.yml/.json settings file and applies defaults. A missing
// file is not an error; defaults are returned.
func Load(path string) (*Settings, error) {
	var s Settings

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.ApplyDefaults()
		return &s, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q (use .json/.yaml/.yml)", ext)
	}

	s.ApplyDefaults()
	return &s, nil
}

// HoldMillis is the configured hold, or DefaultHoldMs when unset.
func (ss SendSettings) HoldMillis() int {
	if ss.HoldMs == nil {
		return DefaultHoldMs
	}
	return *ss.HoldMs
}

// Save writes s as YAML, creating the directory if needed.
func Save(path string, s *Settings) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}

func (s *Settings) ApplyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Send.DelayMs < 0 {
		s.Send.DelayMs = 0
	}
	if s.Send.HoldMs == nil || *s.Send.HoldMs < 0 {
		v := DefaultHoldMs
		s.Send.HoldMs = &v
	}

	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	if s.Logging.RotateMB == 0 {
		s.Logging.RotateMB = 10
	}
	if s.Logging.Keep == 0 {
		s.Logging.Keep = 10
	}
	if s.Logging.Stderr == nil {
		v := true
		s.Logging.Stderr = &v
	}
	if s.Logging.Redact == nil {
		v := true
		s.Logging.Redact = &v
	}

	if s.Control.ListenAddr == "" {
		s.Control.ListenAddr = DefaultListenAddr
	}
	if s.Control.TokenHeader == "" {
		s.Control.TokenHeader = DefaultTokenHeader
	}
}

// HashSecret hashes a control token for storage.
func HashSecret(secret []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckSecret reports whether secret matches a hash from HashSecret.
func CheckSecret(hash string, secret []byte) bool {
	if hash == "" || len(secret) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), secret) == nil
}

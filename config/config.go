package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"classicplus/core"
)

// Config is the host tool configuration
type Config struct {
	Profile ProfileConfig `yaml:"profile"`
	Bridge  BridgeConfig  `yaml:"bridge"`

	// Bus names a native I2C bus for periph's registry; empty picks the first one
	Bus string `yaml:"bus"`

	// Retries is how often a session with a checksum mismatch is repeated
	Retries int `yaml:"retries"`

	// Verify reads back every programmed row
	Verify *bool `yaml:"verify"`
}

// ProfileConfig selects a device profile preset and overrides its fields
type ProfileConfig struct {
	Base              string `yaml:"base"` // classic, nunchuk or bootloader
	Name              string `yaml:"name"`
	Primary           uint8  `yaml:"primary"`
	Secondary         *uint8 `yaml:"secondary"`
	CustomID          uint8  `yaml:"custom_id"`
	ProtectedBoundary uint16 `yaml:"protected_boundary"`
	CalibrationBase   uint8  `yaml:"calibration_base"`
	CalibrationSize   int    `yaml:"calibration_size"`
	FullReport        *bool  `yaml:"full_report"`
}

// BridgeConfig describes the USB-serial I2C bridge
type BridgeConfig struct {
	Device      string `yaml:"device"`
	Baud        int    `yaml:"baud"`
	ReadTimeout int    `yaml:"read_timeout_ms"`
}

// ErrUnknownBase is returned for a profile base that names no preset
var ErrUnknownBase = errors.New("unknown profile base")

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	return Parse(data)
}

// Parse decodes a YAML configuration and fills in defaults
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	applyDefaults(&config)

	if _, err := config.Profile.Build(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *Config) {
	if config.Profile.Base == "" {
		config.Profile.Base = "classic"
	}

	if config.Bridge.Baud == 0 {
		config.Bridge.Baud = 115200
	}
	if config.Bridge.ReadTimeout == 0 {
		config.Bridge.ReadTimeout = 500
	}

	if config.Retries == 0 {
		config.Retries = 3
	}
	if config.Verify == nil {
		verify := true
		config.Verify = &verify
	}
}

// Build returns the preset named by Base with the configured overrides applied
func (p ProfileConfig) Build() (core.Profile, error) {
	var profile core.Profile
	switch p.Base {
	case "classic":
		profile = core.ClassicProfile()
	case "nunchuk":
		profile = core.NunchukProfile()
	case "bootloader":
		profile = core.BootloaderProfile()
	default:
		return core.Profile{}, errors.Wrapf(ErrUnknownBase, "%q", p.Base)
	}

	if p.Name != "" {
		profile.Name = p.Name
	}
	if p.Primary != 0 {
		profile.Primary = p.Primary
	}
	if p.Secondary != nil {
		profile.Secondary = *p.Secondary
	}
	if p.CustomID != 0 {
		profile.CustomID = p.CustomID
	}
	if p.ProtectedBoundary != 0 {
		profile.ProtectedBoundary = p.ProtectedBoundary
	}
	if p.CalibrationBase != 0 {
		profile.CalBase = p.CalibrationBase
	}
	if p.CalibrationSize != 0 {
		profile.CalSize = p.CalibrationSize
	}
	if p.FullReport != nil {
		profile.FullReport = *p.FullReport
	}

	if profile.Primary > 0x7F || profile.Secondary > 0x7F {
		return core.Profile{}, errors.Errorf("bus address out of range: 0x%02X/0x%02X", profile.Primary, profile.Secondary)
	}
	if profile.Secondary == profile.Primary {
		return core.Profile{}, errors.Errorf("secondary address 0x%02X equals primary", profile.Secondary)
	}
	return profile, nil
}

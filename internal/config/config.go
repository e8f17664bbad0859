package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DriverKind enumerates the supported driver backends (spec §4.D, §9
// "Polymorphism over driver backends"). Only one exists today.
type DriverKind int

const (
	DriverALSA DriverKind = iota
)

// StatusGPIO optionally drives a GPIO line high while >=1 device is
// connected (SPEC_FULL.md domain-stack wiring for go-gpiocdev).
type StatusGPIO struct {
	Chip string `yaml:"chip"`
	Line int    `yaml:"line"`
}

type statusGPIOYAML struct {
	Chip string `yaml:"chip"`
	Line int    `yaml:"line"`
}

// UnmarshalYAML decodes one status_gpio mapping, rejecting any key outside
// chip/line (spec §7 "Unknown fields anywhere").
func (g *StatusGPIO) UnmarshalYAML(value *yaml.Node) error {
	if err := strictKeys(value, "chip", "line"); err != nil {
		return err
	}

	var raw statusGPIOYAML
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	*g = StatusGPIO(raw)

	return nil
}

// Config is the fully validated top-level configuration document (spec §6).
type Config struct {
	LogDevices bool
	Driver     DriverKind
	Devices    []DeviceConfig
	Advertise  bool
	StatusGPIO *StatusGPIO
}

type configYAML struct {
	LogDevices *bool          `yaml:"log_devices"`
	Driver     *string        `yaml:"driver"`
	Devices    []DeviceConfig `yaml:"devices"`
	Advertise  *bool          `yaml:"advertise"`
	StatusGPIO *StatusGPIO    `yaml:"status_gpio"`
}

// Parse decodes and validates a configuration document from bytes.
func Parse(data []byte) (*Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if len(root.Content) == 0 {
		return &Config{Driver: DriverALSA}, nil
	}

	doc := root.Content[0]
	if err := strictKeys(doc, "log_devices", "driver", "devices", "advertise", "status_gpio"); err != nil {
		return nil, err
	}

	var raw configYAML
	if err := doc.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	cfg := &Config{
		LogDevices: raw.LogDevices != nil && *raw.LogDevices,
		Driver:     DriverALSA,
		Devices:    raw.Devices,
		Advertise:  raw.Advertise != nil && *raw.Advertise,
		StatusGPIO: raw.StatusGPIO,
	}

	if raw.Driver != nil && *raw.Driver != "alsa" {
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrConfig, *raw.Driver)
	}

	return cfg, nil
}

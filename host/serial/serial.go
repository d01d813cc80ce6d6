package serial

import (
	"io"
)

// Port is the byte stream to the I2C bridge. Tests substitute an in-memory
// implementation for the native port.
type Port interface {
	io.ReadWriteCloser

	// Flush drops any buffered input
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC bridges ignore it)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the bridge firmware's default settings
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 500,
	}
}

package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// Serial opens real serial ports via go.bug.st/serial.
type Serial struct{}

// NewSerial returns the serial-port transport.
func NewSerial() *Serial { return &Serial{} }

func (*Serial) Open(cfg Config) (Conn, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("transport: device path is required")
	}
	mode := &serial.Mode{BaudRate: cfg.BaudRate}
	port, err := serial.Open(cfg.Path, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: opening %s: %w", cfg.Path, err)
	}
	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("transport: read timeout on %s: %w", cfg.Path, err)
		}
	}
	return port, nil
}

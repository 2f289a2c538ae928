// Package transport abstracts the link to the badge reader. The ingest
// loop only ever sees the Transport and Conn interfaces; the serial
// implementation lives behind them so tests can script the device.
package transport

import (
	"io"
	"time"
)

// Config identifies the device endpoint. Supplied by configuration,
// never hard-coded.
type Config struct {
	Path        string        // e.g. /dev/ttyACM0
	BaudRate    int           // e.g. 9600
	ReadTimeout time.Duration // bound on a single Read
}

// Conn is an open link to the device. Read returns (0, nil) when the
// read timeout expires with no data — a quiet tick, not an error.
type Conn interface {
	io.Reader
	io.Closer
}

// Transport opens connections to the device.
type Transport interface {
	Open(cfg Config) (Conn, error)
}

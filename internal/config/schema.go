package config

import "time"

// Config is the top-level YAML structure.
type Config struct {
	Device  DeviceConf  `yaml:"device"`
	Storage StorageConf `yaml:"storage"`
	Server  ServerConf  `yaml:"server"`
}

// DeviceConf identifies the badge reader and the ingest loop's timing.
type DeviceConf struct {
	Path          string `yaml:"path"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
	// SettleMs is how long to wait after opening the port before
	// reading, so the device's own boot sequence can finish.
	SettleMs int `yaml:"settle_ms"`
	// BackoffMs is the fixed wait between reconnection attempts.
	BackoffMs int `yaml:"backoff_ms"`
}

// StorageConf selects the roster backing store. An empty path keeps
// the roster in memory only.
type StorageConf struct {
	Path string `yaml:"path"`
}

// ServerConf holds the HTTP listener settings.
type ServerConf struct {
	Addr string `yaml:"addr"`
}

func (d DeviceConf) ReadTimeout() time.Duration {
	return time.Duration(d.ReadTimeoutMs) * time.Millisecond
}

func (d DeviceConf) Settle() time.Duration {
	return time.Duration(d.SettleMs) * time.Millisecond
}

func (d DeviceConf) Backoff() time.Duration {
	return time.Duration(d.BackoffMs) * time.Millisecond
}

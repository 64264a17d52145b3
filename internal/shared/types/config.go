package types

// ConnectConf holds the target endpoint and the socket tuning used by the connector.
type ConnectConf struct {
	Host    string `ini:"host"`
	Port    int    `ini:"port"`
	NoDelay bool   `ini:"no_delay"`

	// Buffer size hints; 0 keeps the OS default.
	RecvBufBytes int `ini:"recv_buf_bytes"`
	SendBufBytes int `ini:"send_buf_bytes"`

	// TimeoutMillis bounds the connect handshake.
	TimeoutMillis int `ini:"timeout_ms"`

	// Retries is the number of caller-level retries of the whole connect.
	Retries int `ini:"retries"`
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level  string `ini:"level"`
	Format string `ini:"format"` // "console" (default) or "json"
}

// Config is the unified configuration of the connect client.
type Config struct {
	ConnectConf `ini:"connect"`
	LogConf     `ini:"log"`
}

// DefaultConfig returns the values used when no ini file is present.
func DefaultConfig() *Config {
	return &Config{
		ConnectConf: ConnectConf{
			Host:          "127.0.0.1",
			Port:          55555,
			NoDelay:       true,
			TimeoutMillis: 5000,
		},
		LogConf: LogConf{
			Level:  "info",
			Format: "console",
		},
	}
}

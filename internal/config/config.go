package config

// Config is the root daemon configuration for the banner gateway. Mutable
// styling settings live in a separate record (see Settings) so that UI-driven
// read-modify-write cycles never touch the daemon config file.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Events  EventsConfig  `json:"events"`
	Compose ComposeConfig `json:"compose"`
}

// GatewayConfig holds the gateway server settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// ComposeConfig holds the recompose coalescing windows, in milliseconds.
type ComposeConfig struct {
	DebounceMS  int `json:"debounce_ms"`
	ImmediateMS int `json:"immediate_ms"`
}

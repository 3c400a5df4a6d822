package internal

// Option customizes how Run and RunMCP assemble the font service.
type Option func(*application)

// application collects the runtime inputs before wiring starts.
type application struct {
	config *Config
}

// WithConfig supplies the loaded configuration. Both entry points
// require it.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

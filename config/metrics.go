package config

// MetricsConfig selects the metrics sinks to attach.
type MetricsConfig struct {
	Prometheus PrometheusConfig `json:"prometheus"`
	Influx     InfluxConfig     `json:"influx"`
}

// PrometheusConfig exposes plan and fallback counters over HTTP.
type PrometheusConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// InfluxConfig mirrors plan events to an InfluxDB bucket.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// Enabled reports whether the Influx sink is configured.
func (c InfluxConfig) Enabled() bool {
	return c.URL != ""
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.Prometheus.Enabled && c.Prometheus.Addr == "" {
		c.Prometheus.Addr = ":2112"
	}
}

package config

// StoreConfig locates the JSON file store.
type StoreConfig struct {
	// Dir is the directory holding the data files.
	Dir string `json:"dir"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "data"
	}
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/studyflow/studyflow/auth"
	"github.com/studyflow/studyflow/infra/ai"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Store    StoreConfig    `json:"store"`
	Auth     auth.Config    `json:"auth"`
	AI       ai.Config      `json:"ai"`
	Metrics  MetricsConfig  `json:"metrics"`
	Reminder ReminderConfig `json:"reminder"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SF_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sf_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Auth.SetDefaults()
	cfg.AI.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Reminder.SetDefaults()
	if err := cfg.Server.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Reminder.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package set

import "testing"

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no players", func(c *Config) { c.Players = 0 }},
		{"negative humans", func(c *Config) { c.Humans = -1 }},
		{"more humans than players", func(c *Config) { c.Humans = c.Players + 1 }},
		{"tiny feature size", func(c *Config) { c.FeatureSize = 1 }},
		{"table smaller than a set", func(c *Config) { c.TableSize = 2 }},
		{"deck smaller than table", func(c *Config) { c.DeckSize = 5 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

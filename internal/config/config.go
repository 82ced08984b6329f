package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	defaultTicketTTL     = 10 * time.Minute
	defaultScoreCurrency = "bridge_points"
)

// TableConfig tunes the bridge table host.
type TableConfig struct {
	TicketTTLSeconds int    `json:"ticket_ttl_seconds"`
	ScoreCurrency    string `json:"score_currency"`
	HintsEnabled     bool   `json:"hints_enabled"`
	// AutoNextBoard deals the next board as soon as one is scored or passed out.
	AutoNextBoard bool `json:"auto_next_board"`
}

var (
	cfg      *TableConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadTableConfig loads the table configuration from the given path.
func LoadTableConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read table config: %w", err)
			return
		}

		c, err := parseTableConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

func parseTableConfig(data []byte) (*TableConfig, error) {
	var c TableConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal table config: %w", err)
	}
	if c.TicketTTLSeconds < 0 {
		return nil, fmt.Errorf("ticket_ttl_seconds must not be negative")
	}
	return &c, nil
}

// GetTableConfig returns the global table configuration, or nil when none was loaded.
func GetTableConfig() *TableConfig {
	return cfg
}

// GetTicketTTL returns how long seat tickets stay valid.
func GetTicketTTL() time.Duration {
	if cfg == nil || cfg.TicketTTLSeconds == 0 {
		return defaultTicketTTL
	}
	return time.Duration(cfg.TicketTTLSeconds) * time.Second
}

// GetScoreCurrency returns the wallet currency board scores are written to.
func GetScoreCurrency() string {
	if cfg == nil || cfg.ScoreCurrency == "" {
		return defaultScoreCurrency
	}
	return cfg.ScoreCurrency
}

func HintsEnabled() bool {
	return cfg != nil && cfg.HintsEnabled
}

func AutoNextBoard() bool {
	return cfg != nil && cfg.AutoNextBoard
}

package core

import (
	"encoding/json"
	"fmt"
	"os"
)

// UnitConfig configures one reservation-station-backed functional unit
// class: its RS depth, its fixed execution latency, and how many physical
// units of that class exist.
type UnitConfig struct {
	RSSize  int    `json:"rs_size"`
	Latency uint64 `json:"latency"`
	Count   int    `json:"count"`
}

// LSQConfig configures the Load/Store Queue and its memory port
type LSQConfig struct {
	Size       int    `json:"size"`
	MemLatency uint64 `json:"mem_latency"`
	MemorySize int    `json:"memory_size"`
}

// Config is the micro-architectural configuration object the external
// parser hands to the core. It carries sizes, counts, and
// latencies only -- register/memory initial values and the instruction
// stream travel alongside it as a separate Program (see parser.Program).
type Config struct {
	ROBEntries int `json:"rob_entries"`
	CDBs       int `json:"cdbs"` // informational; the design assumes 1

	IntALU     UnitConfig `json:"int_alu"`
	FPAdder    UnitConfig `json:"fp_adder"`
	FPMultiply UnitConfig `json:"fp_multiply"`

	LoadStore LSQConfig `json:"load_store"`

	// BaseMultiplier selects the load/store effective-address formula:
	// ScaledBase treats the base register as a word index, MIPSCorrectBase
	// uses the plain "base + displacement" formula.
	BaseMultiplier BaseMultiplier `json:"base_multiplier"`
}

// DefaultConfig returns a small, reasonable machine configuration, mostly
// useful for tests and for filling in fields a JSON override omits.
func DefaultConfig() *Config {
	return &Config{
		ROBEntries:     16,
		CDBs:           1,
		IntALU:         UnitConfig{RSSize: 4, Latency: 1, Count: 1},
		FPAdder:        UnitConfig{RSSize: 4, Latency: 2, Count: 1},
		FPMultiply:     UnitConfig{RSSize: 2, Latency: 4, Count: 1},
		LoadStore:      LSQConfig{Size: 4, MemLatency: 2, MemorySize: MemoryWords},
		BaseMultiplier: ScaledBase,
	}
}

// LoadConfigJSON loads a Config override from a JSON file, starting from
// DefaultConfig so a partial override file is legal.
func LoadConfigJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse machine config: %w", err)
	}
	return cfg, nil
}

// SaveConfigJSON writes a Config to a JSON file, e.g. for round-tripping a
// config the text parser produced.
func (c *Config) SaveConfigJSON(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal machine config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

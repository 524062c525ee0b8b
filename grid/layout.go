package grid

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Layout is the on-disk description of a grid: its dimensions and one
// assembly program per cell, in row-major order.
type Layout struct {
	Rows     int        `mapstructure:"rows" yaml:"rows"`
	Cols     int        `mapstructure:"cols" yaml:"cols"`
	Programs [][]string `mapstructure:"programs" yaml:"programs"`
}

// LoadLayout reads a YAML or JSON grid layout file (format inferred from
// its extension by viper) and returns the decoded Layout. It does not
// parse the programs themselves — that happens when New builds the Grid.
func LoadLayout(path string) (*Layout, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "grid: reading layout %s", path)
	}

	var layout Layout
	if err := v.Unmarshal(&layout); err != nil {
		return nil, errors.Wrapf(err, "grid: decoding layout %s", path)
	}
	if layout.Rows <= 0 || layout.Cols <= 0 {
		return nil, errors.Errorf("grid: layout %s: rows and cols must be positive", path)
	}
	return &layout, nil
}

// NewFromLayout builds a Grid directly from a Layout, a convenience
// wrapper around New for callers that load layouts from disk.
func NewFromLayout(layout *Layout) (*Grid, error) {
	return New(layout.Rows, layout.Cols, layout.Programs)
}

// ParseLayoutYAML decodes a layout from an in-memory YAML document,
// bypassing viper's file lookup — used for layouts embedded in a binary
// or constructed by a test rather than read from disk.
func ParseLayoutYAML(data []byte) (*Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, errors.Wrap(err, "grid: decoding inline layout")
	}
	if layout.Rows <= 0 || layout.Cols <= 0 {
		return nil, errors.New("grid: inline layout: rows and cols must be positive")
	}
	return &layout, nil
}

// ToYAML serializes layout back to YAML text, useful for writing a layout
// back out or for round-trip tests.
func (layout *Layout) ToYAML() ([]byte, error) {
	return yaml.Marshal(layout)
}

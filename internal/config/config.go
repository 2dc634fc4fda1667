// Package config loads run settings from a JSON, YAML or TOML file.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Altius/stampipes/programs/filter_index/internal/classify"
)

// Config is a specification of the index to filter on and where reads go.
// Index, Index2 and Separator are pointers so that an empty value (which
// means "don't compare") can be told apart from an unset one.
type Config struct {
	Inputs     []string `mapstructure:"inputs"`     // A list of file strings
	Filtered   string   `mapstructure:"filtered"`   // Output for reads that match
	Unfiltered string   `mapstructure:"unfiltered"` // Output for reads that don't

	Index      *string `mapstructure:"index"`
	Index2     *string `mapstructure:"index2"`
	Separator  *string `mapstructure:"separator"`
	Mismatches int     `mapstructure:"mismatches"`

	Verbose         int    `mapstructure:"verbose"`
	SummaryJSON     string `mapstructure:"summary_json"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// Load reads filename; the format follows its extension.
func Load(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", filename)
	}
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", filename)
	}
	return c, nil
}

// Targets returns the index configuration. An unset Index is passthrough.
func (c *Config) Targets() classify.Targets {
	t := classify.Targets{Index2: c.Index2, Separator: c.Separator}
	if c.Index != nil {
		t.Index = *c.Index
	}
	return t
}

// Passthrough reports whether no index will be compared.
func (c *Config) Passthrough() bool { return c.Targets().Passthrough() }

// Stdout is the output name that writes reads to standard output.
const Stdout = "-"

// WritesStdout reports whether reads go to standard output, in which case
// the run report has to go elsewhere.
func (c *Config) WritesStdout() bool {
	return c.Filtered == Stdout || c.Unfiltered == Stdout
}

// Validate checks that c can be run.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("an input file is required")
	}
	if c.Index == nil {
		return errors.New("an index is required (use \"\" for passthrough)")
	}
	if c.Filtered == Stdout && c.Unfiltered == Stdout {
		return errors.New("only one of filtered and unfiltered can be stdout")
	}
	if c.Verbose < 0 {
		return errors.New("verbose must be >= 0")
	}
	return c.Targets().Validate(c.Mismatches)
}

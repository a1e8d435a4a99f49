package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataPath   = "data.csv"
	DefaultMinYear    = 1950
	DefaultMaxYear    = 2015
	DefaultIntervalMS = 750
	DefaultWidth      = 600
	DefaultHeight     = 400
	DefaultRadiusMax  = 60
	DefaultTheme      = "cyberpunk"
	EnvPrefix         = "TRENDSCATTER"
)

type Config struct {
	DataPath   string          `yaml:"data" mapstructure:"data"`
	MinYear    int             `yaml:"min_year" mapstructure:"min_year"`
	MaxYear    int             `yaml:"max_year" mapstructure:"max_year"`
	IntervalMS int             `yaml:"animation_interval_ms" mapstructure:"animation_interval_ms"`
	Autoplay   bool            `yaml:"autoplay" mapstructure:"autoplay"`
	Theme      string          `yaml:"theme" mapstructure:"theme"`
	Chart      ChartConfig     `yaml:"chart" mapstructure:"chart"`
	Columns    dataset.Columns `yaml:"columns" mapstructure:"columns"`
}

type ChartConfig struct {
	Width     float64      `yaml:"width" mapstructure:"width"`
	Height    float64      `yaml:"height" mapstructure:"height"`
	RadiusMax float64      `yaml:"radius_max" mapstructure:"radius_max"`
	Margin    MarginConfig `yaml:"margin" mapstructure:"margin"`
}

type MarginConfig struct {
	Top    float64 `yaml:"top" mapstructure:"top"`
	Right  float64 `yaml:"right" mapstructure:"right"`
	Bottom float64 `yaml:"bottom" mapstructure:"bottom"`
	Left   float64 `yaml:"left" mapstructure:"left"`
}

func DefaultConfig() *Config {
	return &Config{
		DataPath:   DefaultDataPath,
		MinYear:    DefaultMinYear,
		MaxYear:    DefaultMaxYear,
		IntervalMS: DefaultIntervalMS,
		Autoplay:   true,
		Theme:      DefaultTheme,
		Chart: ChartConfig{
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			RadiusMax: DefaultRadiusMax,
			Margin:    MarginConfig{Top: 15, Right: 15, Bottom: 30, Left: 30},
		},
		Columns: dataset.DefaultColumns(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetDefaults registers every key with v so that environment variables and
// bound flags can override them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("data", d.DataPath)
	v.SetDefault("min_year", d.MinYear)
	v.SetDefault("max_year", d.MaxYear)
	v.SetDefault("animation_interval_ms", d.IntervalMS)
	v.SetDefault("autoplay", d.Autoplay)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("chart.width", d.Chart.Width)
	v.SetDefault("chart.height", d.Chart.Height)
	v.SetDefault("chart.radius_max", d.Chart.RadiusMax)
	v.SetDefault("chart.margin.top", d.Chart.Margin.Top)
	v.SetDefault("chart.margin.right", d.Chart.Margin.Right)
	v.SetDefault("chart.margin.bottom", d.Chart.Margin.Bottom)
	v.SetDefault("chart.margin.left", d.Chart.Margin.Left)
	v.SetDefault("columns.entity", d.Columns.Entity)
	v.SetDefault("columns.year", d.Columns.Year)
	v.SetDefault("columns.x", d.Columns.X)
	v.SetDefault("columns.y", d.Columns.Y)
	v.SetDefault("columns.size", d.Columns.Size)
	v.SetDefault("columns.category", d.Columns.Category)
}

// NewViper returns a viper instance reading TRENDSCATTER_* variables and, if
// path is set, the YAML file at path.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// FromViper decodes the merged configuration and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.MinYear > c.MaxYear {
		errs = append(errs, fmt.Errorf("min_year %d is after max_year %d", c.MinYear, c.MaxYear))
	}
	if c.IntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("animation_interval_ms must be positive, got %d", c.IntervalMS))
	}
	if c.PlotWidth() <= 0 || c.PlotHeight() <= 0 {
		errs = append(errs, fmt.Errorf("chart %gx%g leaves no room inside margins", c.Chart.Width, c.Chart.Height))
	}
	if c.Chart.RadiusMax <= 0 {
		errs = append(errs, fmt.Errorf("radius_max must be positive, got %g", c.Chart.RadiusMax))
	}
	cols := c.Columns
	for name, v := range map[string]string{
		"entity": cols.Entity, "year": cols.Year, "x": cols.X,
		"y": cols.Y, "size": cols.Size, "category": cols.Category,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("column %s is empty", name))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// PlotWidth is the chart width inside the margins.
func (c *Config) PlotWidth() float64 {
	return c.Chart.Width - c.Chart.Margin.Left - c.Chart.Margin.Right
}

func (c *Config) PlotHeight() float64 {
	return c.Chart.Height - c.Chart.Margin.Top - c.Chart.Margin.Bottom
}

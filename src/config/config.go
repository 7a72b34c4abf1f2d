// Package config is for viewer wide settings that are unmarshalled
// from Viper: an optional config file, HITVIEW_* environment variables
// and built-in defaults, in that order of precedence.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/blasthits/hitviewer/src/selection"
)

// EnvPrefix is prepended to upper-cased keys, e.g. HITVIEW_PLOT_MARKER_SIZE.
const EnvPrefix = "HITVIEW"

// PlotConfig is settings for the scatter plot
type PlotConfig struct {
	// marker color of selected points, as hex (#rrggbb or rrggbb)
	SelectedColor string `mapstructure:"selected-color"`

	// marker color of unselected points
	UnselectedColor string `mapstructure:"unselected-color"`

	// marker diameter in pixels
	MarkerSize float64 `mapstructure:"marker-size"`

	// marker opacity, 0..1
	Opacity float64 `mapstructure:"opacity"`

	// default render size for headless output
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`

	// how far (pixels) from a marker a click or hover still hits it
	HitTolerance float64 `mapstructure:"hit-tolerance"`
}

// Config is the root-level settings struct
type Config struct {
	LogLevel string     `mapstructure:"log-level"`
	Plot     PlotConfig `mapstructure:"plot"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "info")
	v.SetDefault("plot.selected-color", "#ff0000")
	v.SetDefault("plot.unselected-color", "#008000")
	v.SetDefault("plot.marker-size", 9.0)
	v.SetDefault("plot.opacity", 0.4)
	v.SetDefault("plot.width", 1100)
	v.SetDefault("plot.height", 600)
	v.SetDefault("plot.hit-tolerance", 6.0)
}

// New returns a Viper instance with defaults and environment lookups registered.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (if not empty) on top of the defaults and decodes the result.
func Load(path string) (Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// ReadFile merges the config file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges and color syntax.
func (c Config) Validate() error {
	if _, err := ParseHexColor(c.Plot.SelectedColor); err != nil {
		return fmt.Errorf("plot.selected-color: %w", err)
	}
	if _, err := ParseHexColor(c.Plot.UnselectedColor); err != nil {
		return fmt.Errorf("plot.unselected-color: %w", err)
	}
	if c.Plot.Opacity < 0 || c.Plot.Opacity > 1 {
		return fmt.Errorf("plot.opacity %v outside [0,1]", c.Plot.Opacity)
	}
	if c.Plot.MarkerSize <= 0 {
		return fmt.Errorf("plot.marker-size must be positive, got %v", c.Plot.MarkerSize)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("plot size must be positive, got %dx%d", c.Plot.Width, c.Plot.Height)
	}
	if c.Plot.HitTolerance < 0 {
		return fmt.Errorf("plot.hit-tolerance must not be negative")
	}
	return nil
}

// Palette returns the marker colors. Call on a validated Config.
func (c Config) Palette() selection.Palette {
	sel, _ := ParseHexColor(c.Plot.SelectedColor)
	unsel, _ := ParseHexColor(c.Plot.UnselectedColor)
	return selection.Palette{Selected: sel, Unselected: unsel}
}

// ParseHexColor accepts #rgb, #rrggbb and the same without '#'.
func ParseHexColor(s string) (drawing.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.Color{}, fmt.Errorf("bad hex color %q", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return drawing.Color{}, fmt.Errorf("bad hex color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return drawing.ColorFromHex(hex), nil
}

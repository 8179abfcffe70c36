package config

import (
	"errors"
	"time"

	"github.com/zhou-zzz/blog/internal/logging"
)

// Defaults applied by viper before the config file and environment are read.
const (
	DefaultSiteTitle   = "My Blog"
	DefaultOutputDir   = "public"
	DefaultContentDir  = "content"
	DefaultLayoutsDir  = "layouts"
	DefaultStaticDir   = "static"
	DefaultPageSize    = 10
	DefaultPort        = 1313
	DefaultDebounce    = 500 * time.Millisecond
	DefaultViewport    = "width=device-width,initial-scale=1"
	DefaultFavicon     = "favicon.ico"
	DefaultStatusBar   = "black-translucent"
	DefaultLightTheme  = "github"
	DefaultDarkTheme   = "monokai"
	DefaultSepiaTheme  = "monokailight"
	DefaultColorMode   = "system"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = logging.FormatConsole
	DefaultEnvPrefix   = "BLOG"
	DefaultConfigName  = "config"
	DefaultConfigType  = "yaml"
	DefaultHighlightTo = "css/highlight.css"
)

// ErrNoOutputDir is returned by Validate when the output directory is empty.
var ErrNoOutputDir = errors.New("outputDir must not be empty")

// Config is the site configuration read from config.yaml and BLOG_* variables.
type Config struct {
	SiteTitle   string `mapstructure:"siteTitle"`
	Description string `mapstructure:"description"`
	BaseURL     string `mapstructure:"baseURL"`
	OutputDir   string `mapstructure:"outputDir"`
	ContentDir  string `mapstructure:"contentDir"`
	LayoutsDir  string `mapstructure:"layoutsDir"`
	StaticDir   string `mapstructure:"staticDir"`
	PageSize    int    `mapstructure:"pageSize"`

	Highlight Highlight      `mapstructure:"highlight"`
	ColorMode ColorMode      `mapstructure:"colorMode"`
	Head      Head           `mapstructure:"head"`
	Log       logging.Config `mapstructure:"log"`
	Serve     Serve          `mapstructure:"serve"`

	// Params is free-form data exposed to templates as .Site.Config.
	Params map[string]any `mapstructure:"params"`
}

// Highlight names the chroma styles for each color mode.
type Highlight struct {
	Default string `mapstructure:"default"`
	Dark    string `mapstructure:"dark"`
	Sepia   string `mapstructure:"sepia"`
}

// ColorMode controls the class placed on the <html> element.
type ColorMode struct {
	Preference  string `mapstructure:"preference"`
	ClassSuffix string `mapstructure:"classSuffix"`
}

// Head holds the site-wide <head> tags.
type Head struct {
	Viewport       string `mapstructure:"viewport"`
	Favicon        string `mapstructure:"favicon"`
	ThemeColor     string `mapstructure:"themeColor"`
	StatusBarStyle string `mapstructure:"statusBarStyle"`
}

// Serve configures the development server.
type Serve struct {
	Port     int           `mapstructure:"port"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		SiteTitle:  DefaultSiteTitle,
		OutputDir:  DefaultOutputDir,
		ContentDir: DefaultContentDir,
		LayoutsDir: DefaultLayoutsDir,
		StaticDir:  DefaultStaticDir,
		PageSize:   DefaultPageSize,
		Highlight: Highlight{
			Default: DefaultLightTheme,
			Dark:    DefaultDarkTheme,
			Sepia:   DefaultSepiaTheme,
		},
		ColorMode: ColorMode{Preference: DefaultColorMode},
		Head: Head{
			Viewport:       DefaultViewport,
			Favicon:        DefaultFavicon,
			StatusBarStyle: DefaultStatusBar,
		},
		Log:   logging.Config{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Serve: Serve{Port: DefaultPort, Debounce: DefaultDebounce},
	}
}

// Normalize replaces values that have a safe default: a non-positive page
// size becomes 1 and empty directories fall back to the conventional names.
func (c *Config) Normalize() {
	if c.PageSize < 1 {
		c.PageSize = 1
	}
	if c.ContentDir == "" {
		c.ContentDir = DefaultContentDir
	}
	if c.LayoutsDir == "" {
		c.LayoutsDir = DefaultLayoutsDir
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.Serve.Debounce <= 0 {
		c.Serve.Debounce = DefaultDebounce
	}
}

// Validate reports configuration errors that have no safe default.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	return nil
}

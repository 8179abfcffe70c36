package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhou-zzz/blog/internal/config"
	"github.com/zhou-zzz/blog/internal/logging"
)

// app carries state resolved by the root command to its subcommands.
type app struct {
	cfgFile string
	debug   bool
	config  config.Config
	logger  zerolog.Logger
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the blog command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "blog",
		Short: "blog - a markdown blog generator",
		Long: `blog takes the Markdown posts in ./content, renders them with the
layouts in ./layouts (or the built-in theme) and writes a static site with
paginated post lists, a yearly archive and tag pages.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newBuildCmd(a), newServeCmd(a), newNewCmd(a))
	return rootCmd
}

func (a *app) initialize(cmd *cobra.Command) error {
	v := viper.New()
	setDefaults(v)

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(config.DefaultConfigName)
		v.SetConfigType(config.DefaultConfigType)
	}

	v.SetEnvPrefix(config.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	readErr := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case readErr == nil:
	case errors.As(readErr, &notFound):
		if a.cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", a.cfgFile, readErr)
		}
	default:
		return fmt.Errorf("failed to read config file: %w", readErr)
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.Normalize()

	if a.debug {
		cfg.Log.Level = "debug"
		cfg.Log.Format = logging.FormatConsole
	}
	cfg.Log.Output = cmd.ErrOrStderr()
	a.config = cfg
	a.logger = logging.New(cfg.Log)

	if used := v.ConfigFileUsed(); used != "" && readErr == nil {
		a.logger.Debug().Str("file", used).Msg("using config file")
	} else {
		a.logger.Debug().Msg("no config file found, using defaults and environment")
	}

	cmd.SetContext(a.logger.WithContext(cmd.Context()))
	return nil
}

// setDefaults registers every key so that environment variables can set
// keys that are absent from the config file.
func setDefaults(v *viper.Viper) {
	d := config.Default()
	defaults := map[string]any{
		"siteTitle":             d.SiteTitle,
		"description":           d.Description,
		"baseURL":               d.BaseURL,
		"outputDir":             d.OutputDir,
		"contentDir":            d.ContentDir,
		"layoutsDir":            d.LayoutsDir,
		"staticDir":             d.StaticDir,
		"pageSize":              d.PageSize,
		"highlight.default":     d.Highlight.Default,
		"highlight.dark":        d.Highlight.Dark,
		"highlight.sepia":       d.Highlight.Sepia,
		"colorMode.preference":  d.ColorMode.Preference,
		"colorMode.classSuffix": d.ColorMode.ClassSuffix,
		"head.viewport":         d.Head.Viewport,
		"head.favicon":          d.Head.Favicon,
		"head.themeColor":       d.Head.ThemeColor,
		"head.statusBarStyle":   d.Head.StatusBarStyle,
		"log.level":             d.Log.Level,
		"log.format":            d.Log.Format,
		"serve.port":            d.Serve.Port,
		"serve.debounce":        d.Serve.Debounce,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

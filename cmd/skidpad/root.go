package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/log"
	"github.com/lixenwraith/skidpad/status"
	"github.com/lixenwraith/skidpad/tuning"
)

const envPrefix = "SKIDPAD"

// appConfig holds the settings shared by every subcommand
type appConfig struct {
	cfgFile   string
	logLevel  string
	logFile   string
	logFormat string
	logFilter string

	runID string
}

func newRootCmd() *cobra.Command {
	cfg := &appConfig{runID: uuid.NewString()}
	v := viper.New()

	root := &cobra.Command{
		Use:          "skidpad",
		Short:        "Terminal vehicle dynamics sandbox",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v, cfg.cfgFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.cfgFile, "config", "", "config file (default is $HOME/.skidpad.yml)")
	pf.StringVar(&cfg.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&cfg.logFile, "log-file", "",
		"log destination: a path, stderr or stdout (drive discards logs when unset, other commands use stderr)")
	pf.StringVar(&cfg.logFormat, "log-format", "console", "console or json")
	pf.StringVar(&cfg.logFilter, "log-filter", "", "zapfilter rule, e.g. 'warn:* info:tuning*'")

	root.AddCommand(
		newDriveCmd(cfg),
		newRunCmd(cfg),
		newCheckCmd(),
		newDefaultsCmd(),
	)
	return root
}

// initConfig reads the optional config file and SKIDPAD_* environment into the executing command's flags
func initConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".skidpad")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
	} else if cfgFile != "" {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}

	return bindFlags(cmd, v)
}

// bindFlags applies config file and environment values to every flag not set on the command line
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// env names cannot carry dashes: --log-level reads SKIDPAD_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			suffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, suffix)); err != nil {
				errs = append(errs, fmt.Errorf("bind env for %s: %w", f.Name, err))
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				errs = append(errs, fmt.Errorf("apply %s from config: %w", f.Name, err))
			}
		}
	})
	return multierr.Combine(errs...)
}

// logger builds the run logger; fallback is used when --log-file is unset
func (c *appConfig) logger(fallback string) (*log.Logger, error) {
	out := c.logFile
	if out == "" {
		out = fallback
	}
	l, err := log.New(log.Config{
		Level:  c.logLevel,
		Format: c.logFormat,
		Output: out,
		Filter: c.logFilter,
	})
	if err != nil {
		return nil, err
	}
	return l.With(log.String("run", c.runID)), nil
}

// openParams returns the tuning source for path; an empty path serves the built-in car
// The store is nil for the built-in car since there is nothing to watch
func openParams(path string, l *log.Logger, reg *status.Registry) (engine.ParamSource, *tuning.Store, error) {
	if path == "" {
		l.Info("no parameter file given, using built-in defaults")
		return tuning.NewFixed(tuning.Default()), nil, nil
	}
	store, err := tuning.Open(afero.NewOsFs(), path, tuning.WithLogger(l), tuning.WithRegistry(reg))
	if err != nil {
		return nil, nil, fmt.Errorf("open parameters: %w", err)
	}
	return store, store, nil
}

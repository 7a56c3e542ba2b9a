package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/scapegoat"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".scapegoat"
	configType = "yaml"
	envPrefix  = "SCAPEGOAT"
)

// Configuration keys
const (
	keyAlpha  = "alpha"
	keyFormat = "format"
	keyTrace  = "trace"
)

const (
	defaultFormat     = "plain"
	defaultTraceLevel = "error"
)

// loadConfig reads configuration from defaults, an optional config file,
// environment variables and flags, in increasing order of precedence.
// A missing config file is not an error, unless it has been named explicitly.
func (a *app) loadConfig(root *cobra.Command) error {
	v := a.v
	v.SetDefault(keyAlpha, scapegoat.DefaultAlpha)
	v.SetDefault(keyFormat, defaultFormat)
	v.SetDefault(keyTrace, defaultTraceLevel)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || a.cfgFile != "" {
			return errors.Wrap(err, "read config")
		}
	}
	for _, key := range []string{keyAlpha, keyTrace} {
		if err := v.BindPFlag(key, root.PersistentFlags().Lookup(key)); err != nil {
			return errors.Wrapf(err, "bind flag %s", key)
		}
	}
	return nil
}

// setupTracing installs a Go logger based tracer as the global tracer.
func setupTracing(level string) error {
	var l tracing.TraceLevel
	switch strings.ToLower(level) {
	case "error":
		l = tracing.LevelError
	case "info":
		l = tracing.LevelInfo
	case "debug":
		l = tracing.LevelDebug
	default:
		return errors.Newf("unknown trace level %q", level)
	}
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(l)
	return nil
}

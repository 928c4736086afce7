package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// envPrefix prefixes the environment variables overriding flag defaults,
// like SPROUT_MAX_DEPTH for --max-depth
const envPrefix = "SPROUT"

type rootCmdConfig struct {
	v          *viper.Viper
	logger     *zap.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func newRootCmdConfig() *rootCmdConfig {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &rootCmdConfig{v: v, logger: zap.NewNop()}
}

/*
setup binds the flags of the running command to the configuration, reads
the configuration file given with --config, if any, and builds the logger.
Flags set on the command line override environment variables, which
override the configuration file, which overrides flag defaults.
*/
func (rcc *rootCmdConfig) setup(cmd *cobra.Command) error {
	if err := rcc.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if path := rcc.v.GetString("config"); path != "" {
		rcc.v.SetConfigFile(path)
		rcc.v.SetConfigType("yaml")
		if err := rcc.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading configuration from %s: %v", path, err)
		}
	}
	logger, err := newLogger(rcc.v.GetBool("verbose"), rcc.v.GetString("log-file"))
	if err != nil {
		return err
	}
	rcc.logger = logger
	rcc.ctx, rcc.cancelFunc = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return nil
}

func (rcc *rootCmdConfig) teardown() {
	if rcc.cancelFunc != nil {
		rcc.cancelFunc()
	}
	rcc.logger.Sync()
}

// Context returns the context cancelled when the process is interrupted
func (rcc *rootCmdConfig) Context() context.Context {
	if rcc.ctx == nil {
		return context.Background()
	}
	return rcc.ctx
}

func (rcc *rootCmdConfig) String(key string) string {
	return rcc.v.GetString(key)
}

func (rcc *rootCmdConfig) Int(key string) int {
	return rcc.v.GetInt(key)
}

func (rcc *rootCmdConfig) Bool(key string) bool {
	return rcc.v.GetBool(key)
}

func (rcc *rootCmdConfig) Float(key string) float64 {
	return rcc.v.GetFloat64(key)
}

func (rcc *rootCmdConfig) Strings(key string) []string {
	return rcc.v.GetStringSlice(key)
}

// required returns an error naming the first of the given keys with no value
func (rcc *rootCmdConfig) required(keys ...string) error {
	for _, k := range keys {
		if rcc.v.GetString(k) == "" && len(rcc.v.GetStringSlice(k)) == 0 {
			return fmt.Errorf("required %s flag was not set", k)
		}
	}
	return nil
}

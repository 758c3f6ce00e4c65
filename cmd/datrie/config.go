package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/datrie"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// wrap is the number of characters to wrap the help text at
	wrap int = 50
)

// wrapString wraps a string at wrap characters
func wrapString(text string) string {
	var lines []string
	var line strings.Builder
	width := 0

	for _, word := range strings.Fields(text) {
		if width > 0 && width+1+len(word) > wrap {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
		if width > 0 {
			line.WriteString(" ")
			width++
		}
		line.WriteString(word)
		width += len(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// initConfig loads .env files and maps DATRIE_* variables onto flags.
func initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("datrie")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindFlags binds the flags of cmd and its parents to viper.
func bindFlags(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.InheritedFlags())
}

func setupGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("log-level", "warn", wrapString("log level (debug, info, warn, error)"))
	flags.String("log-format", "text", wrapString("log format (text, json)"))
	flags.Int64("io-limit", 0, wrapString("limit object store transfers to this many bytes per second, 0 for unlimited"))
	flags.Int64("memory-limit", 0, wrapString("limit the unit array to this many bytes, 0 for unlimited"))

	flags.String("s3-region", "", wrapString("region for s3:// locations, defaults to the AWS configuration"))
	flags.String("s3-endpoint", "", wrapString("custom endpoint for s3:// locations, enables path-style addressing"))
	flags.String("minio-endpoint", "localhost:9000", wrapString("endpoint for minio:// locations"))
	flags.String("minio-access-key", "", wrapString("access key for minio:// locations"))
	flags.String("minio-secret-key", "", wrapString("secret key for minio:// locations"))
	flags.Bool("minio-secure", false, wrapString("use TLS for minio:// locations"))
}

func logger() (*datrie.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", viper.GetString("log-level"))
	}

	switch viper.GetString("log-format") {
	case "text":
		return datrie.NewTextLogger(level), nil
	case "json":
		return datrie.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("invalid log format %s", viper.GetString("log-format"))
	}
}

// newTrie creates a trie configured from the global flags.
func newTrie() (*datrie.Trie, error) {
	l, err := logger()
	if err != nil {
		return nil, err
	}
	return datrie.New(
		datrie.WithLogger(l),
		datrie.WithIOLimit(viper.GetInt64("io-limit")),
		datrie.WithMemoryLimit(viper.GetInt64("memory-limit")),
	), nil
}

// Package cmd implements the modelscout CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modelscout/modelscout"
	"github.com/modelscout/modelscout/internal/sources/huggingface"
	"github.com/modelscout/modelscout/internal/sources/ollama"
	"github.com/modelscout/modelscout/pkg/logging"
	"github.com/modelscout/modelscout/pkg/sources"
)

var (
	configFile string
	verbose    bool
	quiet      bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "modelscout",
	Short: "Multi-source AI model catalog",
	Long: `Modelscout reconciles AI model metadata from heterogeneous sources
into a single deduplicated catalog. It fetches from the configured sources
concurrently, screens records for safety, and merges duplicates across
sources with tiered identity matching.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.modelscout.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".modelscout")
	}

	// Load .env files before Viper env binding; .env.local overrides .env.
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
			logging.Debug().Err(err).Str("file", envFile).Msg("Skipping env file")
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Bind API key variables explicitly so they resolve without appearing
	// in a config file.
	for _, key := range []string{"gemini_api_key", "ollama_url"} {
		if err := viper.BindEnv(key); err != nil {
			logging.Debug().Err(err).Str("key", key).Msg("Env binding failed")
		}
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	switch {
	case verbose || viper.GetBool("verbose"):
		logging.SetLevel("debug")
	case quiet || viper.GetBool("quiet"):
		logging.SetLevel("warn")
	}
}

// newClient builds a client with the standard fetchers registered.
func newClient() (*modelscout.Client, error) {
	registry := sources.NewRegistry()
	registry.Register(huggingface.NewFetcher())
	registry.Register(ollama.NewFetcher())

	return modelscout.New(modelscout.WithRegistry(registry))
}

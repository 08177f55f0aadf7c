package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/penny/internal/common"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "penny",
		Short: "🪙 Conversational finance tracker",
		Long: `penny: track subscriptions, expenses and income by chatting.

Type "нетфликс 599 каждое 5 число" or "spent 15$ on lunch yesterday" and
penny works out the rest, asking only for what is missing.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/penny/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("db", "", "database path (default: $HOME/.local/share/penny/penny.db)")
	rootCmd.PersistentFlags().String("chat", "", "chat id used by local commands")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("chat.id", rootCmd.PersistentFlags().Lookup("chat"))

	setDefaults()

	// Add commands
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(replayCmd())
	rootCmd.AddCommand(recordsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		slog.Debug("Command failed", "error", err)
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

func setDefaults() {
	viper.SetDefault("database.path", defaultDBPath)
	viper.SetDefault("session.backend", "memory")
	viper.SetDefault("session.ttl", "10m")
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.cert_dir", "$HOME/.config/penny/certs")
	viper.SetDefault("server.rate_limit", 30)
	viper.SetDefault("chat.id", "local")
	viper.SetDefault("tui.theme", "default")
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/penny", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("PENNY")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}

	format := viper.GetString("logging.format")
	switch format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format: %s", common.ErrInvalidConfig, format)
	}

	common.SetupLogger(os.Stderr, level, format)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			slog.Info("penny version", "version", version)
		},
	}
}

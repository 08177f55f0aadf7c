package main

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/penny/internal/certs"
	"github.com/Veraticus/penny/internal/config"
	"github.com/Veraticus/penny/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP",
		Long: `Start the HTTP adapter. Messenger bridges post each incoming message to
POST /chats/:id/messages and relay the reply text back to the user.

POST /chats/:id/voice is registered only when the dialogue engine has a
speech-to-text transcriber; this command does not configure one, so voice
bridges must transcribe before posting text.

Running more than one instance requires session.backend=redis and routing
every chat to a single instance.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed certificate")
	cmd.Flags().StringSlice("tls-host", nil, "Extra host names or IPs for the certificate")
	cmd.Flags().Int("rate-limit", 0, "Messages per chat per minute (0 disables)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))
	_ = viper.BindPFlag("server.tls_hosts", cmd.Flags().Lookup("tls-host"))
	_ = viper.BindPFlag("server.rate_limit", cmd.Flags().Lookup("rate-limit"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	if viper.GetString("logging.level") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := []server.Option{server.WithRateLimit(viper.GetInt("server.rate_limit"))}
	if viper.GetBool("server.tls") {
		certDir := config.ExpandPath(viper.GetString("server.cert_dir"))
		cert, err := certs.NewFileManager(certDir, viper.GetStringSlice("server.tls_hosts")...).GetOrCreateCertificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		opts = append(opts, server.WithCertificate(cert))
	}

	ctx := cmd.Context()
	a, err := initApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	slog.Info("Starting penny server",
		"session_backend", viper.GetString("session.backend"),
		"database", viper.GetString("database.path"),
		"tls", viper.GetBool("server.tls"),
		"rate_limit", viper.GetInt("server.rate_limit"),
		"voice", a.engine.VoiceEnabled())

	srv := server.New(a.engine, a.records, slog.Default(), opts...)
	return srv.ListenAndServe(ctx, viper.GetString("server.addr"))
}

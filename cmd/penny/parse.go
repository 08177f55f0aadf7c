package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/penny/internal/nlu"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <message>",
		Short: "Show how a message is understood",
		Long: `Run the language pipeline over one message and print the detected
intent, language and extracted values as JSON. Nothing is stored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().String("now", "", "Reference date for relative dates (YYYY-MM-DD)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	now := time.Now()
	if raw, _ := cmd.Flags().GetString("now"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --now date %q: %w", raw, err)
		}
		now = parsed
	}

	analysis := nlu.Analyze(strings.Join(args, " "), now)
	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

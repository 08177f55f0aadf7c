package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/penny/internal/cli"
	"github.com/Veraticus/penny/internal/dialogue"
)

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Feed a file of messages through the dialogue",
		Long: `Replay a transcript: every non-empty line is sent as one message from
the configured chat. Lines starting with # are comments. Use - for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: runReplay,
	}

	cmd.Flags().Bool("memory", false, "Keep records in memory instead of the database")
	cmd.Flags().Bool("json", false, "Print each reply as a JSON line")
	cmd.Flags().Bool("quiet", false, "Hide the progress bar")

	return cmd
}

// replayStats summarizes a replay run.
type replayStats struct {
	Messages int
	Stored   int
	Removed  int
	Failed   int
}

func runReplay(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	ephemeral, _ := cmd.Flags().GetBool("memory")
	quiet, _ := cmd.Flags().GetBool("quiet")

	lines, err := readTranscript(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := initApp(ctx, ephemeral)
	if err != nil {
		return err
	}
	defer a.Close()

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = newReplayBar(len(lines), cmd.ErrOrStderr())
	}

	id := chatID()
	handle := func(ctx context.Context, text string) dialogue.Reply {
		return a.engine.Handle(ctx, id, text)
	}

	stats, err := replay(ctx, lines, handle, cmd.OutOrStdout(), bar, asJSON)
	if err != nil {
		return err
	}

	if !asJSON {
		summary := fmt.Sprintf("  • Messages: %d\n  • Stored: %d\n  • Removed: %d\n  • Failed: %d",
			stats.Messages, stats.Stored, stats.Removed, stats.Failed)
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Replay Complete", summary))
	}
	return nil
}

func readTranscript(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path) // #nosec G304 - user-selected transcript
		if err != nil {
			return nil, fmt.Errorf("failed to open transcript: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return lines, nil
}

func newReplayBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Replaying messages...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

// replay sends lines one by one and writes every reply to out. bar may be nil.
func replay(ctx context.Context, lines []string, handle cli.HandlerFunc, out io.Writer, bar *progressbar.ProgressBar, asJSON bool) (replayStats, error) {
	var stats replayStats
	enc := json.NewEncoder(out)

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		reply := handle(ctx, line)
		stats.Messages++
		switch {
		case reply.Message == dialogue.MsgGenericError:
			stats.Failed++
		case reply.Message == dialogue.MsgRemoved:
			stats.Removed++
		case reply.RecordID != "":
			stats.Stored++
		}

		if asJSON {
			if err := enc.Encode(reply); err != nil {
				return stats, fmt.Errorf("failed to encode reply: %w", err)
			}
		} else if _, err := fmt.Fprintf(out, "%s %s\n%s\n", cli.FormatPrompt("you"), line, cli.FormatBotReply(reply.Text)); err != nil {
			return stats, fmt.Errorf("failed to write reply: %w", err)
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}
	return stats, nil
}

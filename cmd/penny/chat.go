package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/penny/internal/cli"
	"github.com/Veraticus/penny/internal/dialogue"
	"github.com/Veraticus/penny/internal/tui"
	"github.com/Veraticus/penny/internal/tui/themes"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with penny in the terminal",
		Long: `Start an interactive chat. Every line is one message, exactly as it
would arrive from a messenger. Type /quit to leave.`,
		RunE: runChat,
	}

	cmd.Flags().Bool("tui", false, "Use the full-screen chat interface")
	cmd.Flags().Bool("memory", false, "Keep records in memory instead of the database")
	cmd.Flags().String("theme", "", "TUI theme (default, catppuccin)")
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	useTUI, _ := cmd.Flags().GetBool("tui")
	ephemeral, _ := cmd.Flags().GetBool("memory")

	ctx := cmd.Context()
	a, err := initApp(ctx, ephemeral)
	if err != nil {
		return err
	}
	defer a.Close()

	id := chatID()
	handle := func(ctx context.Context, text string) dialogue.Reply {
		return a.engine.Handle(ctx, id, text)
	}

	if useTUI {
		return tui.Run(ctx, handle,
			tui.WithTheme(themes.ByName(viper.GetString("tui.theme"))),
			tui.WithTitle("penny · chat "+id),
		)
	}

	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx = interrupts.HandleInterrupts(ctx, "Any unfinished question was dropped.")

	fmt.Fprintln(os.Stdout, cli.FormatTitle("penny"))
	fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("Type a message, or /quit to leave."))

	_, err = cli.NewREPL(os.Stdin, os.Stdout, handle).Run(ctx)
	if errors.Is(err, context.Canceled) && interrupts.WasInterrupted() {
		return nil
	}
	return err
}

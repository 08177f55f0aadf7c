package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/penny/internal/cli"
	"github.com/Veraticus/penny/internal/model"
)

const dateLayout = "2006-01-02"

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records [subscriptions|expenses|incomes]",
		Short: "List stored records for the configured chat",
		Long: `List records of one kind, or of every kind when none is given.
The chat is taken from --chat or chat.id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRecords,
	}

	cmd.Flags().Bool("json", false, "Print records as JSON")

	return cmd
}

func runRecords(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	kinds := model.RecordKinds
	if len(args) == 1 {
		kind, err := model.ParseRecordKind(args[0])
		if err != nil {
			return err
		}
		kinds = []model.RecordKind{kind}
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id := chatID()
	grouped := make(map[model.RecordKind][]model.Record, len(kinds))
	for _, kind := range kinds {
		records, err := store.ListRecords(ctx, id, kind)
		if err != nil {
			return fmt.Errorf("failed to list %s records: %w", kind, err)
		}
		grouped[kind] = records
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(grouped)
	}
	return printRecords(cmd.OutOrStdout(), kinds, grouped)
}

func printRecords(w io.Writer, kinds []model.RecordKind, grouped map[model.RecordKind][]model.Record) error {
	for _, kind := range kinds {
		records := grouped[kind]
		if _, err := fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("%s (%d)", kind, len(records)))); err != nil {
			return err
		}
		if len(records) == 0 {
			if _, err := fmt.Fprintln(w, cli.SubtleStyle.Render("  none")); err != nil {
				return err
			}
			continue
		}
		for _, rec := range records {
			if _, err := fmt.Fprintln(w, "  "+recordLine(rec)); err != nil {
				return err
			}
		}
	}
	return nil
}

func recordLine(rec model.Record) string {
	switch r := rec.(type) {
	case *model.Subscription:
		return fmt.Sprintf("%s  %-24s %12s  %s", r.NextPaymentDate.Format(dateLayout), r.Name,
			model.FormatAmount(r.Cost, r.Currency), r.RecurrenceLabel)
	case *model.Expense:
		return fmt.Sprintf("%s  %-24s %12s  %s", r.SpentAt.Format(dateLayout), r.Title,
			model.FormatAmount(r.Amount, r.Currency), r.Category)
	case *model.Income:
		return fmt.Sprintf("%s  %-24s %12s  %s", r.ReceivedAt.Format(dateLayout), r.Title,
			model.FormatAmount(r.Amount, r.Currency), r.Category)
	}
	return rec.DisplayName()
}

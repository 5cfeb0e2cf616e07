package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Export history to a local sqlite archive and search it",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Snapshot all room history into the archive (idempotent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, account, err := app.loadAccount()
			if err != nil {
				return err
			}
			if err := st.ExportArchive(cmd.Context(), account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archived %d rooms\n", len(account.Rooms))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <substring>",
		Short: "Find archived text messages containing substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return err
			}
			hits, err := st.SearchArchive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, h := range hits {
				ts := time.UnixMicro(int64(h.Timestamp)).UTC().Format(time.RFC3339)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", ts, h.RoomName, h.Sender, h.Body)
			}
			return nil
		},
	})

	return cmd
}

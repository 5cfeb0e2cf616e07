package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sufec-tui/internal/model"
	"sufec-tui/internal/transport"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init <address>",
		Short: "Create a fresh account snapshot for the given address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := model.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", args[0], err)
			}
			st, err := app.store()
			if err != nil {
				return err
			}
			if st.Exists() {
				return fmt.Errorf("account already exists in %s", st.Dir)
			}
			pub, sec, err := transport.GenerateKeyPair()
			if err != nil {
				return err
			}
			account := &model.Account{Self: addr, EphPub: pub, EphSec: sec}
			if err := st.SaveAccount(account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized account %s in %s\n", addr, st.Dir)
			return nil
		},
	}
}

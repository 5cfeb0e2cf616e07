package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sufec-tui/internal/chat"
	"sufec-tui/internal/model"
)

func newContactsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the contact directory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, account, err := app.loadAccount()
			if err != nil {
				return err
			}
			for _, c := range account.Contacts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Name, c.Address)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <address> <name>",
		Short: "Add a contact (or rename the existing one for that address)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := model.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", args[0], err)
			}
			st, account, err := app.loadAccount()
			if err != nil {
				return err
			}
			chat.UpsertContact(account, addr, args[1])
			return st.SaveAccount(account)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename the first contact matching name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, account, err := app.loadAccount()
			if err != nil {
				return err
			}
			for i := range account.Contacts {
				if account.Contacts[i].Name == args[0] {
					account.Contacts[i].Name = args[1]
					return st.SaveAccount(account)
				}
			}
			return errNotFound("contact", args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Remove the first contact matching name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, account, err := app.loadAccount()
			if err != nil {
				return err
			}
			for i := range account.Contacts {
				if account.Contacts[i].Name == args[0] {
					account.Contacts = append(account.Contacts[:i], account.Contacts[i+1:]...)
					return st.SaveAccount(account)
				}
			}
			return errNotFound("contact", args[0])
		},
	})

	return cmd
}

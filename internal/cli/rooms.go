package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sufec-tui/internal/chat"
	"sufec-tui/internal/model"
)

func newRoomsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Inspect rooms and their history",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, account, err := app.loadAccount()
			if err != nil {
				return err
			}
			for _, r := range account.Rooms {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d members\t%d messages\t%d unseen\n",
					r.ID, r.Name, len(r.Members), len(r.History), r.Unseen)
			}
			return nil
		},
	})

	var limit int
	history := &cobra.Command{
		Use:   "history <room-name-or-id>",
		Short: "Print a room's history, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, account, err := app.loadAccount()
			if err != nil {
				return err
			}
			room := findRoom(account, args[0])
			if room == nil {
				return errNotFound("room", args[0])
			}
			hist := room.History
			if limit > 0 && len(hist) > limit {
				hist = hist[len(hist)-limit:]
			}
			for _, e := range hist {
				ts := time.UnixMicro(int64(e.Timestamp)).UTC().Format(time.RFC3339)
				body := e.Content.Text
				if e.Content.Kind != model.ContentText {
					body = fmt.Sprintf("[unsupported message: %s]", e.Content.Kind)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", ts, chat.DisplayName(account, e.Sender), body)
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 0, "Only print the last N entries")
	cmd.AddCommand(history)

	return cmd
}

// findRoom matches by id first, then by the first room with that name.
func findRoom(a *model.Account, key string) *model.Room {
	if r := a.Room(model.RoomID(key)); r != nil {
		return r
	}
	for i := range a.Rooms {
		if a.Rooms[i].Name == key {
			return &a.Rooms[i]
		}
	}
	return nil
}

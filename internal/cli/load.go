package cli

import (
	"encoding/json"
	"fmt"

	"lacasita/internal/form"
	"lacasita/internal/models"

	"github.com/spf13/cobra"
)

func newLoadCmd(a *app) *cobra.Command {
	var session models.EditSession
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fetch an existing reservation and print the hydrated form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.newState(&session)
			if err := st.Load(cmd.Context()); err != nil {
				return loadError(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st.Draft())
		},
	}
	cmd.Flags().StringVar(&session.ReservationID, "id", "", "reservation id")
	cmd.Flags().StringVar(&session.AccessToken, "token", "", "access token")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

// loadError keeps the cause but leads with the message a user sees.
func loadError(err error) error {
	n := form.LoadNotification(err)
	if n.Message == err.Error() {
		return err
	}
	return fmt.Errorf("%s: %w", n.Message, err)
}

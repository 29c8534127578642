package cli

import (
	"encoding/json"
	"fmt"

	"lacasita/internal/form"
	"lacasita/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type submitFlags struct {
	name, email, phone   string
	date, time           string
	diners               string
	seating, pickup      string
	reservationID, token string
}

func newSubmitCmd(a *app) *cobra.Command {
	var f submitFlags
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Build a reservation from flags and submit it",
		Long: `Build a reservation from flags and submit it.
With --id and --token the existing reservation is loaded first and only the given flags change it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var session *models.EditSession
			if f.reservationID != "" || f.token != "" {
				session = &models.EditSession{ReservationID: f.reservationID, AccessToken: f.token}
			}
			st := a.newState(session)

			if session != nil {
				if err := st.Load(cmd.Context()); err != nil {
					return loadError(err)
				}
			}

			if err := applySubmitFlags(st, cmd.Flags(), f); err != nil {
				return err
			}

			result, err := st.Submit(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printNotification(out, form.SubmitNotification(nil))
			if result != nil && (result.Message != "" || len(result.Data) > 0) {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "guest name")
	fl.StringVar(&f.email, "email", "", "guest email")
	fl.StringVar(&f.phone, "phone", "", "guest phone")
	fl.StringVar(&f.date, "date", "", "date, YYYY-MM-DD")
	fl.StringVar(&f.time, "time", "", `time, e.g. "7:05 PM"`)
	fl.StringVar(&f.diners, "diners", "", "party size, 1-10")
	fl.StringVar(&f.seating, "seating", "", "inside or outside")
	fl.StringVar(&f.pickup, "pickup", "", "yes or no")
	fl.StringVar(&f.reservationID, "id", "", "existing reservation id")
	fl.StringVar(&f.token, "token", "", "existing reservation access token")
	return cmd
}

// applySubmitFlags copies the flags that were set onto the form.
func applySubmitFlags(st *form.State, fl *pflag.FlagSet, f submitFlags) error {
	if fl.Changed("name") {
		st.SetName(f.name)
	}
	if fl.Changed("email") {
		st.SetEmail(f.email)
	}
	if fl.Changed("phone") {
		st.SetPhone(f.phone)
	}
	if fl.Changed("date") {
		st.ShowWeekOf(f.date)
		if err := st.SelectDate(f.date); err != nil {
			return err
		}
	}
	if fl.Changed("time") {
		t, err := models.ParseTime(f.time)
		if err != nil {
			return err
		}
		if err := st.SetHour(t.Hour); err != nil {
			return err
		}
		if err := st.SetMinute(t.Minute); err != nil {
			return err
		}
		if err := st.SetMeridiem(t.AMPM); err != nil {
			return err
		}
	}
	if fl.Changed("diners") {
		if err := st.SetDiners(f.diners); err != nil {
			return fmt.Errorf("%w (%s)", err, form.MsgDinersRange)
		}
	}
	if fl.Changed("seating") {
		if err := st.SetSeating(f.seating); err != nil {
			return err
		}
	}
	if fl.Changed("pickup") {
		if err := st.SetPickup(f.pickup); err != nil {
			return err
		}
	}
	return nil
}

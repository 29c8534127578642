package cli

import (
	"fmt"
	"time"

	"lacasita/internal/form"
	"lacasita/internal/models"

	"github.com/spf13/cobra"
)

func newWeekCmd(a *app) *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the selectable dates",
		Long:  "Print the seven dates of the week window after moving it --offset weeks (negative moves back, never before the current week).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.newState(nil)

			dir := form.Next
			steps := offset
			if offset < 0 {
				dir = form.Prev
				steps = -offset
			}
			for i := 0; i < steps; i++ {
				if !st.NavigateWeek(dir) {
					break
				}
			}

			out := cmd.OutOrStdout()
			for _, date := range st.Week() {
				label := date
				if t, err := time.Parse(models.DateLayout, date); err == nil {
					label = fmt.Sprintf("%s %s", date, t.Format("Mon"))
				}
				fmt.Fprintln(out, label)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "weeks to move from the current week")
	return cmd
}

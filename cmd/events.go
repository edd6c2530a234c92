package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Observe path update events",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream path.resequenced events from Redis until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer rt.close()

		if rt.cfg.Redis.Addr == "" {
			return errors.New("redis.addr is not configured; events are only logged")
		}
		sub, err := events.NewRedisPublisher(cmd.Context(), rt.redisOptions(), rt.log)
		if err != nil {
			return err
		}
		defer sub.Close()

		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()
		return sub.Subscribe(cmd.Context(), func(ev events.Event) {
			if asJSON {
				raw, _ := json.Marshal(ev)
				fmt.Fprintln(out, string(raw))
				return
			}
			fmt.Fprintf(out, "%s  %-10s %-8s %-12s next=%s eta=%dm  %s\n",
				ev.At.Local().Format("15:04:05"), ev.UserID, ev.CourseID, ev.Outcome,
				ev.NextAssetID, ev.ETAMinutes, ev.Reason)
		})
	},
}

func init() {
	eventsCmd.AddCommand(eventsWatchCmd)
}

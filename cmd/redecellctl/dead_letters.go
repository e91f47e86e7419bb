package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"redecell/internal/config"
	"redecell/internal/infra"
	"redecell/internal/worker"

	"github.com/spf13/cobra"
)

var deadLettersCmd = &cobra.Command{
	Use:   "dead-letters",
	Short: "Inspect or requeue jobs parked in a dead-letter queue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		queue, _ := cmd.Flags().GetString("queue")
		limit, _ := cmd.Flags().GetInt64("limit")
		requeue, _ := cmd.Flags().GetBool("requeue")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		ctx := context.Background()

		if requeue {
			n, err := worker.RequeueDeadLetters(ctx, rdb, queue)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d job(s) moved back to %s\n", n, queue)
			return nil
		}

		parked, err := worker.PeekDeadLetters(ctx, rdb, queue, limit)
		if err != nil {
			return err
		}
		return printDeadLetters(cmd.OutOrStdout(), parked)
	},
}

func init() {
	deadLettersCmd.Flags().String("queue", worker.QueueWebhook, "source queue ("+worker.QueueWebhook+" or "+worker.QueueEmail+")")
	deadLettersCmd.Flags().Int64("limit", 20, "entries to show, newest first")
	deadLettersCmd.Flags().Bool("requeue", false, "move every entry back to the queue with attempts reset")
}

func printDeadLetters(w io.Writer, parked []worker.DeadLetter) error {
	if len(parked) == 0 {
		_, err := fmt.Fprintln(w, "no dead letters")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAILED AT\tTYPE\tATTEMPTS\tREASON")
	for _, dl := range parked {
		jobType := dl.Job.Type
		if jobType == "" {
			jobType = "(invalid)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", dl.FailedAt.Format(time.RFC3339), jobType, dl.Job.Attempts, dl.Reason)
	}
	return tw.Flush()
}

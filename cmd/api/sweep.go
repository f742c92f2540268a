package main

import (
	"github.com/spf13/cobra"

	"docvault/internal/job"
	"docvault/internal/schedule"
)

func newSweepCmd() *cobra.Command {
	var only []string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the maintenance jobs once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			jobs := selectJobs(rt.jobs(), only)
			return schedule.RunOnce(cmd.Context(), rt.logger, jobs...)
		},
	}
	cmd.Flags().StringSliceVar(&only, "job", nil, "run only the named jobs (grant_purge, deleted_purge, blob_reclaim)")
	return cmd
}

func selectJobs(all []scheduledJob, only []string) []job.Job {
	want := make(map[string]bool, len(only))
	for _, name := range only {
		want[name] = true
	}
	var out []job.Job
	for _, sj := range all {
		if len(want) == 0 || want[sj.job.Name()] {
			out = append(out, sj.job)
		}
	}
	return out
}

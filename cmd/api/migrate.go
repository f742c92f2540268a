package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), runtimeOptions{migrate: true})
			if err != nil {
				return err
			}
			rt.Close()
			return nil
		},
	}
}

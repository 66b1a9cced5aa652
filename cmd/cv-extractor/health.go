package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCacheHealthCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-health",
		Short: "Ping the text cache database and report how many documents it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, v, *cfgFile)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.db == nil {
				return errors.New("text cache is disabled (set cache.enabled and cache.dsn)")
			}

			if err := a.db.HealthCheck(ctx, time.Second); err != nil {
				return fmt.Errorf("cache health: FAIL (%w)", err)
			}
			n, err := a.db.CountDocuments(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cache health: OK (%s, %d documents)\n", a.db.Driver, n)
			return err
		},
	}
}

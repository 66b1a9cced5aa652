package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/cv-extractor/internal/processor"
)

const app = "cv-extractor"

// flagBindings maps persistent flags onto config keys.
var flagBindings = map[string]string{
	"phone-region": "output.phone_region",
	"output-dir":   "output.dir",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          app + " <path>",
		Short:        "Extract a structured candidate profile from a CV (PDF, DOCX, text or image)",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), v, cfgFile)
			if err != nil {
				return err
			}
			defer a.Close()

			oc, err := a.proc.ProcessFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			b, err := processor.EncodeResult(oc.Result)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "a config file (yaml, json or toml)")
	pf.String("phone-region", "", "region for phone numbers without a country code, e.g. IN")
	pf.String("output-dir", "", "directory for <name>_CV.json and CV.json (default: next to the input)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "text or json")
	for flag, key := range flagBindings {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding --%s: %v", flag, err))
		}
	}

	root.AddCommand(
		newBatchCmd(v, &cfgFile),
		newWatchCmd(v, &cfgFile),
		newTextCmd(v, &cfgFile),
		newCacheHealthCmd(v, &cfgFile),
	)
	return root
}

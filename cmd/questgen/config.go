package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Config prints the configuration after defaults, the config file and
environment interpolation have been applied. Secrets are redacted.`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	show := *cfg
	if show.LLM.APIKey != "" {
		show.LLM.APIKey = "[redacted]"
	}

	out, err := yaml.Marshal(&show)
	if err != nil {
		return err
	}
	cmd.Print(string(out))
	return nil
}

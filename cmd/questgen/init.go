package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigTemplate = `# questgen configuration
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: ${OPENAI_API_KEY}
  temperature: 0.1
  max_tokens: 4000
  timeout: 60s

workflow:
  max_retries: 2
  min_questions: 8
  target_questions: 12
  min_question_length: 20
  max_question_length: 2000
  max_concurrent: 8
  # dispatch_rate limits background dispatches per second; 0 disables it.
  dispatch_rate: 0

storage:
  database_path: questgen.db
  jobs_dir: storage/jobs
  policy_dir: storage/policies

logging:
  level: info
  format: text

telemetry:
  enabled: false
  endpoint: localhost:4317
  insecure: true
  service_name: questgen
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists", cfgFile)
		}
		if err := os.WriteFile(cfgFile, []byte(defaultConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
		cmd.Printf("wrote %s\n", cfgFile)
		return nil
	},
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hireloop/questgen/internal/store"
)

var (
	policyID   string
	policyName string
	policyFile string
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage the company policies folded into generation prompts",
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored policies",
	RunE:  runPolicyList,
}

var policyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a policy from a text file",
	RunE:  runPolicyAdd,
}

func init() {
	policyAddCmd.Flags().StringVar(&policyID, "id", "", "policy identifier")
	policyAddCmd.Flags().StringVar(&policyName, "name", "", "human-readable policy name")
	policyAddCmd.Flags().StringVar(&policyFile, "file", "", "file containing the policy text")
	policyAddCmd.MarkFlagRequired("id")
	policyAddCmd.MarkFlagRequired("name")
	policyAddCmd.MarkFlagRequired("file")

	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyAddCmd)
}

func runPolicyList(cmd *cobra.Command, args []string) error {
	db, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	policies, err := db.ListPolicies(cmd.Context())
	if err != nil {
		return err
	}
	if len(policies) == 0 {
		cmd.Println("no policies stored")
		return nil
	}

	for _, p := range policies {
		cmd.Printf("%-20s %-30s %4d chars\n", p.ID, p.Name, len(p.Content))
	}
	return nil
}

func runPolicyAdd(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(policyFile)
	if err != nil {
		return fmt.Errorf("reading policy file: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return fmt.Errorf("policy file %s is empty", policyFile)
	}

	db, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreatePolicy(cmd.Context(), &store.Policy{
		ID:      policyID,
		Name:    policyName,
		Content: string(content),
	}); err != nil {
		return err
	}

	cmd.Printf("stored policy %s (%s)\n", policyID, policyName)
	return nil
}

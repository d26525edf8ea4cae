package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/factchecker/cinecheck/internal/models"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var evidencePath string

	cmd := &cobra.Command{
		Use:   "verify <query...>",
		Short: "Check a claim against an evidence record file",
		Long: `Check a claim against an evidence record stored as JSON, without
fetching anything. Without --evidence the verdict is always unknown.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var evidence *models.EvidenceRecord
			if path := strings.TrimSpace(evidencePath); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read evidence: %w", err)
				}
				evidence = &models.EvidenceRecord{}
				if err := json.Unmarshal(data, evidence); err != nil {
					return fmt.Errorf("parse evidence %s: %w", path, err)
				}
			}

			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}

			verdict := newEngine(cfg, provider).Verify(cmd.Context(), strings.Join(args, " "), evidence)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(verdict)
		},
	}

	cmd.Flags().StringVarP(&evidencePath, "evidence", "e", "", "Path to an evidence record JSON file")
	return cmd
}

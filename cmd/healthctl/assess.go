package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func newAssessCmd(opts *rootOptions) *cobra.Command {
	var req domain.AssessmentRequest
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess a symptom description without storing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.setup(cmd)
			stack, err := buildTriageStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			result, err := stack.assess.Assess(cmd.Context(), nil, req)
			if err != nil {
				return errors.New(domain.UserMessage(err))
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&req.Symptoms, "symptoms", "", "symptom description")
	cmd.Flags().IntVar(&req.Age, "age", 0, "patient age in years")
	cmd.Flags().IntVar(&req.DaysSick, "days", 0, "days since symptoms started")
	return cmd
}

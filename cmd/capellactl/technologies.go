package main

import (
	"context"
	"fmt"
	"io"

	"capella-backend/internal/casestudies"

	"github.com/spf13/cobra"
)

func technologiesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "technologies",
		Short: "List the technologies used by published case studies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTechnologies(cmd.Context(), e.service, cmd.OutOrStdout())
		},
	}
}

func listTechnologies(ctx context.Context, service *casestudies.Service, out io.Writer) error {
	techs, err := service.AvailableTechnologies(ctx)
	if err != nil {
		return err
	}
	for _, tech := range techs {
		fmt.Fprintln(out, tech)
	}
	return nil
}

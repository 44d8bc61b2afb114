package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"capella-backend/internal/casestudies"
	"capella-backend/internal/validation"

	"github.com/spf13/cobra"
)

//go:embed seed.json
var defaultSeed []byte

func seedCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample case studies, skipping slugs that already exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := defaultSeed
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				raw = data
			}
			var reqs []casestudies.UpsertRequest
			if err := json.Unmarshal(raw, &reqs); err != nil {
				return fmt.Errorf("decode seed: %w", err)
			}
			_, err := seed(cmd.Context(), e, validation.New(), reqs, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with an array of case studies")
	return cmd
}

// seed creates each request and reports how many were inserted. Cached API
// responses are invalidated once anything was created.
func seed(ctx context.Context, e *env, val *validation.Validator, reqs []casestudies.UpsertRequest, out io.Writer) (created int, err error) {
	defer func() {
		if created == 0 {
			return
		}
		if cerr := casestudies.InvalidateResponses(ctx, e.responses); cerr != nil && err == nil {
			err = fmt.Errorf("invalidate response cache: %w", cerr)
		}
	}()

	for i, req := range reqs {
		if err := val.Struct(req); err != nil {
			return created, fmt.Errorf("seed entry %d: %w", i, err)
		}
		view, err := e.service.Create(ctx, req)
		if errors.Is(err, casestudies.ErrSlugExists) {
			fmt.Fprintf(out, "skip\t%s\n", req.Title)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed entry %d: %w", i, err)
		}
		created++
		fmt.Fprintf(out, "created\t%d\t%s\n", view.ID, view.Slug)
	}
	fmt.Fprintf(out, "%d case studies created\n", created)
	return created, nil
}

package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/api/shared/dto"
)

func newLandlordCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "landlord <address>",
		Short: "Show a landlord's habitats, tenants and pending harvests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(opts)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, cancel := rt.queryContext(cmd.Context())
			defer cancel()

			r, err := rt.orchestrator.LandlordReport(ctx, args[0])
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), dto.MapLandlordReportToDTO(r))
			}
			return printLandlordReport(cmd.OutOrStdout(), r, adapter.NewClock().Now())
		},
	}
}

func newHarvesterCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "harvester <address>",
		Short: "Show a player's summary and locked stakes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(opts)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, cancel := rt.queryContext(cmd.Context())
			defer cancel()

			r, err := rt.orchestrator.HarvesterReport(ctx, args[0])
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), dto.MapHarvesterReportToDTO(r))
			}
			return printHarvesterReport(cmd.OutOrStdout(), r, adapter.NewClock().Now())
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

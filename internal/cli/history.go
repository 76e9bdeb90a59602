package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/ui/render"
)

func (a *App) newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently saved results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runHistory(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of saves to show")
	return cmd
}

func (a *App) runHistory(ctx context.Context, limit int) error {
	store, err := a.openStore()
	if err != nil {
		return errmsg.Wrap(errmsg.OpStateOpen, err)
	}
	defer store.Close()

	recs, err := store.History(ctx, limit)
	if err != nil {
		return errmsg.Wrap(errmsg.OpHistory, err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.stdout, "Nothing saved yet.")
		return nil
	}

	for _, r := range recs {
		detail := r.Method
		if r.Workflow == "cutout" {
			detail = r.ResultType
		}
		line := fmt.Sprintf("%s  %s  %s  %s",
			render.Pad(humanize.Time(r.SavedAt), 16),
			render.Pad(r.Workflow, 6),
			render.Pad(detail, 13),
			r.ResultPath)
		if r.MaskPath != "" {
			line += " (mask " + r.MaskPath + ")"
		}
		fmt.Fprintln(a.stdout, line)
		if r.Source != "" {
			fmt.Fprintf(a.stdout, "%s  from %s\n", render.Pad("", 16), r.Source)
		}
	}
	return nil
}

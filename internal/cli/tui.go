package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/ipv/internal/app"
	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/logging"
	"github.com/llehouerou/ipv/internal/stderr"
	"github.com/llehouerou/ipv/internal/ui/termimg"
)

type tuiOptions struct {
	workflow string
}

func (a *App) newRootCmd() *cobra.Command {
	opts := &tuiOptions{}

	cmd := &cobra.Command{
		Use:   "ipv [image]",
		Short: "Terminal client for the B&W converter and cutout service",
		Long: `ipv previews images in the terminal and sends them to the image processing
service: grayscale conversion with a choice of formulas, and foreground
cutout of a rectangle drawn with the mouse.

Without a subcommand the interactive viewer starts, optionally with an image.

Examples:
  # Open the viewer on the cutout workflow
  ipv --workflow cutout photo.jpg

  # Convert a batch of files headlessly
  ipv convert --method luma --out ./bw *.jpg`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			image := ""
			if len(args) > 0 {
				image = args[0]
			}
			return a.runTUI(cmd, opts, image)
		},
	}
	cmd.Flags().StringVarP(&opts.workflow, "workflow", "w", "", "Workflow to start in (bw or cutout)")
	return cmd
}

func (a *App) runTUI(cmd *cobra.Command, opts *tuiOptions, image string) error {
	switch opts.workflow {
	case "", app.WorkflowBW, app.WorkflowCutout:
	default:
		return fmt.Errorf("unknown workflow %q (want bw or cutout)", opts.workflow)
	}

	e, err := a.prepare()
	if err != nil {
		return err
	}
	defer e.close()

	store, err := a.openStore()
	if err != nil {
		return errmsg.Wrap(errmsg.OpStateOpen, err)
	}

	display := e.cfg.GetDisplayConfig()
	proto := termimg.Detect(display.ImageProtocol)
	protoName := "none"
	if proto != nil {
		protoName = proto.Name()
	}
	logging.Info().
		Add(logging.Str("protocol", protoName)).
		Add(logging.Str("server", e.client.BaseURL())).
		Msg("viewer starting")

	m := app.New(app.Options{
		Config:   e.cfg,
		Service:  e.client,
		Store:    store,
		Surface:  termimg.NewSurface(proto),
		Workflow: opts.workflow,
		Image:    image,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	restore, err := stderr.Capture(func(line string) {
		logging.Warn().Add(logging.Str("line", line)).Msg("stderr output")
	})
	if err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("stderr capture unavailable")
	}
	final, runErr := p.Run()
	restore()

	if fm, ok := final.(app.Model); ok {
		err = fm.Close()
	} else {
		err = store.Close()
	}
	if runErr != nil {
		return fmt.Errorf("run viewer: %w", runErr)
	}
	return err
}

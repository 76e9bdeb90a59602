package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/selection"
	"github.com/llehouerou/ipv/internal/session"
	"github.com/llehouerou/ipv/internal/state"
)

type cutoutOptions struct {
	rect        string
	previewRect string
	resultType  string
	save        bool
	out         string
}

func (a *App) newCutoutCmd() *cobra.Command {
	opts := &cutoutOptions{}

	cmd := &cobra.Command{
		Use:   "cutout FILE",
		Short: "Cut the foreground out of a rectangle",
		Long: `Run a foreground cutout on the processing service.

The rectangle is given either in source image pixels (--rect) or in preview
pixels (--preview-rect), as the interactive viewer would draw it. Preview
rectangles are scaled to the source like a mouse selection and must be at
least display.min_rect_size pixels on each side.

Examples:
  # Cut out a region given in source pixels and write result and mask
  ipv cutout --rect 200,200,400,300 --out ./cut photo.jpg

  # Same region drawn on the 800px preview of a 1600px image
  ipv cutout --preview-rect 100,100,200,150 --result-type bw --save photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCutout(cmd.Context(), opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.rect, "rect", "", "Rectangle in source pixels: x,y,width,height")
	cmd.Flags().StringVar(&opts.previewRect, "preview-rect", "", "Rectangle in preview pixels: x,y,width,height")
	cmd.Flags().StringVarP(&opts.resultType, "result-type", "t", "", "Result type: normal or bw")
	cmd.Flags().BoolVarP(&opts.save, "save", "s", false, "Store result and mask on the service")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Directory to write the result and mask to")
	cmd.MarkFlagsMutuallyExclusive("rect", "preview-rect")
	cmd.MarkFlagsOneRequired("rect", "preview-rect")
	return cmd
}

func (a *App) runCutout(ctx context.Context, opts *cutoutOptions, path string) error {
	e, err := a.prepare()
	if err != nil {
		return err
	}
	defer e.close()

	name := opts.resultType
	if name == "" {
		name = e.cfg.GetDefaultsConfig().ResultType
	}
	rt, err := params.ParseResultType(name)
	if err != nil {
		return err
	}

	src, err := imagefile.Load(path)
	if err != nil {
		return errmsg.Wrap(errmsg.OpImageLoad, err)
	}
	cut := session.NewCutout(e.client, sessionOptions(e.cfg, "", rt))
	if err := cut.Load(src); err != nil {
		return err
	}

	if err := selectRect(cut, opts); err != nil {
		return err
	}
	rect, _ := cut.Selection().Selection()
	g := cut.Geometry()
	fmt.Fprintf(a.stdout, "%s: %dx%d, preview %dx%d, rect %s\n",
		path, g.SourceWidth, g.SourceHeight, g.PreviewWidth, g.PreviewHeight, rect)

	call, err := cut.Process()
	if err != nil {
		return err
	}
	if _, err := runCall(ctx, cut, call); err != nil {
		return err
	}
	res := cut.Result()
	fmt.Fprintf(a.stdout, "cutout complete (%s)\n", res.ResultType.Label())

	if opts.out != "" {
		base := stem(path) + "_cutout_" + string(res.ResultType)
		resultPath, err := imagefile.WriteDataURI(opts.out, base, res.Image)
		if err != nil {
			return errmsg.Wrap(errmsg.OpWriteFile, err)
		}
		maskPath, err := imagefile.WriteDataURI(opts.out, base+"_mask", res.Mask)
		if err != nil {
			return errmsg.Wrap(errmsg.OpWriteFile, err)
		}
		fmt.Fprintf(a.stdout, "wrote %s\nwrote %s\n", resultPath, maskPath)
	}

	if !opts.save {
		return nil
	}
	return a.saveCutout(ctx, cut, src.Path)
}

func (a *App) saveCutout(ctx context.Context, cut *session.Cutout, source string) error {
	store, err := a.openStore()
	if err != nil {
		return errmsg.Wrap(errmsg.OpStateOpen, err)
	}
	defer store.Close()

	call, err := cut.Save()
	if err != nil {
		return err
	}
	st, err := runCall(ctx, cut, call)
	if err != nil {
		return err
	}
	if st.Saved == nil {
		return nil
	}
	fmt.Fprintf(a.stdout, "saved as %s", st.Saved.ResultPath)
	if st.Saved.MaskPath != "" {
		fmt.Fprintf(a.stdout, " and %s", st.Saved.MaskPath)
	}
	fmt.Fprintln(a.stdout)

	recordSave(ctx, store, state.SaveRecord{
		Workflow:   cut.Workflow(),
		Source:     source,
		ResultType: string(cut.Result().ResultType),
		ResultPath: st.Saved.ResultPath,
		MaskPath:   st.Saved.MaskPath,
		SavedAt:    time.Now(),
	})
	return nil
}

// selectRect installs the rectangle from the flags. A preview rectangle is
// replayed as a drag so it goes through the same scaling and size checks
// as a mouse selection.
func selectRect(cut *session.Cutout, opts *cutoutOptions) error {
	if opts.rect != "" {
		r, err := geometry.ParseRect(opts.rect)
		if err != nil {
			return err
		}
		return cut.CommitRect(r)
	}

	r, err := geometry.ParseRect(opts.previewRect)
	if err != nil {
		return err
	}
	if !cut.Press(r.Min()) {
		return errors.New("cannot start a selection")
	}
	cut.Move(r.Max())
	if rel := cut.Release(r.Max()); rel.Outcome != selection.Accepted {
		return fmt.Errorf("%s (at least %g preview pixels per side)", session.StatusTooSmall, cut.Selection().MinSize())
	}
	return nil
}

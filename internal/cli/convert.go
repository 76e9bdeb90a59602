package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/session"
	"github.com/llehouerou/ipv/internal/state"
)

type convertOptions struct {
	method string
	save   bool
	out    string
}

type convertReport struct {
	path      string
	outPath   string
	savedPath string
	err       error
}

func (a *App) newConvertCmd() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert images to black and white",
		Long: `Convert one or more images to grayscale on the processing service.

Files are processed concurrently within the batch.concurrency and batch.rate
limits of the configuration.

Examples:
  # Convert with the default method and write the results next to ./bw
  ipv convert --out ./bw photo.jpg scan.png

  # Convert with the green channel and store the results on the service
  ipv convert --method green_channel --save *.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "Conversion method (see 'ipv methods')")
	cmd.Flags().BoolVarP(&opts.save, "save", "s", false, "Store the results on the service")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Directory to write the converted images to")
	return cmd
}

func (a *App) runConvert(ctx context.Context, opts *convertOptions, files []string) error {
	e, err := a.prepare()
	if err != nil {
		return err
	}
	defer e.close()

	name := opts.method
	if name == "" {
		name = e.cfg.GetDefaultsConfig().Method
	}
	method, err := params.ParseMethod(name)
	if err != nil {
		return err
	}

	var store state.Interface
	if opts.save {
		store, err = a.openStore()
		if err != nil {
			return errmsg.Wrap(errmsg.OpStateOpen, err)
		}
		defer store.Close()
	}

	sessOpts := sessionOptions(e.cfg, method, "")
	batch := e.cfg.GetBatchConfig()
	reports, err := runBatch(ctx, files, batch.Concurrency, batch.Rate,
		func(ctx context.Context, path string) convertReport {
			conv := session.NewConverter(e.client, sessOpts)
			return convertOne(ctx, conv, store, path, opts)
		})
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.err != nil {
			failed++
			fmt.Fprintln(a.stderr, errmsg.FormatWith(errmsg.OpConvert, r.path, r.err))
			continue
		}
		line := fmt.Sprintf("%s: converted (%s)", r.path, method)
		if r.outPath != "" {
			line += " -> " + r.outPath
		}
		if r.savedPath != "" {
			line += ", saved as " + r.savedPath
		}
		fmt.Fprintln(a.stdout, line)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(files))
	}
	return nil
}

func convertOne(ctx context.Context, conv *session.Converter, store state.Interface, path string, opts *convertOptions) convertReport {
	rep := convertReport{path: path}

	src, err := imagefile.Load(path)
	if err != nil {
		rep.err = errmsg.Wrap(errmsg.OpImageLoad, err)
		return rep
	}
	if err := conv.Load(src); err != nil {
		rep.err = err
		return rep
	}

	call, err := conv.Process()
	if err != nil {
		rep.err = err
		return rep
	}
	if _, err := runCall(ctx, conv, call); err != nil {
		rep.err = err
		return rep
	}
	res := conv.Result()

	if opts.out != "" {
		rep.outPath, err = imagefile.WriteDataURI(opts.out, stem(path)+"_"+string(res.Method), res.Image)
		if err != nil {
			rep.err = errmsg.Wrap(errmsg.OpWriteFile, err)
			return rep
		}
	}

	if !opts.save {
		return rep
	}
	call, err = conv.Save()
	if err != nil {
		rep.err = err
		return rep
	}
	st, err := runCall(ctx, conv, call)
	if err != nil {
		rep.err = err
		return rep
	}
	if st.Saved != nil {
		rep.savedPath = st.Saved.ResultPath
		recordSave(ctx, store, state.SaveRecord{
			Workflow:   conv.Workflow(),
			Source:     src.Path,
			Method:     string(res.Method),
			ResultPath: st.Saved.ResultPath,
			SavedAt:    time.Now(),
		})
	}
	return rep
}

// stem is the file name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

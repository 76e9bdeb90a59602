package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/ui/render"
)

func (a *App) newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List conversion methods and cutout result types",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			width := 0
			for _, m := range params.Methods() {
				width = max(width, len(m))
			}

			fmt.Fprintln(a.stdout, "Conversion methods:")
			for _, m := range params.Methods() {
				d := params.Describe(m)
				marker := " "
				if m == params.DefaultMethod {
					marker = "*"
				}
				fmt.Fprintf(a.stdout, " %s %s  %s\n", marker, render.Pad(string(m), width), d.Formula)
			}

			fmt.Fprintln(a.stdout, "\nCutout result types:")
			for _, rt := range params.ResultTypes() {
				marker := " "
				if rt == params.DefaultResultType {
					marker = "*"
				}
				fmt.Fprintf(a.stdout, " %s %s  %s\n", marker, render.Pad(string(rt), width), rt.Label())
			}
		},
	}
}

package main

import (
	"context"
	"io"
	"os"

	"github.com/pthm/elemental"
	"github.com/spf13/cobra"
)

func renderCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the demo page HTML",
		Long: `Build the demo document and print it as HTML.

Examples:
  elemental render
  elemental render --prefix app -o index.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			a, err := newApp(cfg, log, nil)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return a.render(cmd.Context(), w)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (a *app) render(ctx context.Context, w io.Writer) error {
	doc, err := a.page()
	if err != nil {
		return err
	}
	return elemental.Page(doc).Render(ctx, w)
}

package main

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java/codebase"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Build every class below a directory and report the ones that fail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			cb := codebase.New(dir, loaderOptions(cfg)...)
			if err := cb.ScanAll(); err != nil {
				return err
			}

			problems := cb.Problems()
			paths := make([]string, 0, len(problems))
			for path := range problems {
				paths = append(paths, path)
			}
			sort.Strings(paths)

			count, failing := 0, 0
			for _, path := range paths {
				if len(problems[path]) > 0 {
					failing++
				}
				for _, p := range problems[path] {
					count++
					f := cb.GetFile(path)
					line := codebase.ProblemLine(f.Content, p.Class) + 1
					pterm.Error.Printfln("%s:%d: %s", path, line, p.Err)
					for _, hint := range errors.GetAllHints(p.Err) {
						pterm.Info.Println(hint)
					}
				}
			}

			classes := len(cb.ClassNames())
			if count > 0 {
				return errors.Newf("%d problems in %d files, %d classes declared", count, failing, classes)
			}
			pterm.Success.Printfln("%d classes in %d files build cleanly", classes, len(paths))
			return nil
		},
	}
}

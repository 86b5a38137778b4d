package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java"
)

func newImportsCmd() *cobra.Command {
	var flattened bool

	cmd := &cobra.Command{
		Use:   "imports <class>",
		Short: "Print the import list and declaration header of a class",
		Long: `Print the imports a compilation unit declaring the class needs, followed by
the class header written against them. With --flattened the types of every
inherited member are included too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLoader(cfg)
			if err != nil {
				return err
			}
			class, err := findClass(l, args[0])
			if err != nil {
				return err
			}

			types := class.Types()
			if flattened {
				for _, f := range class.AllFields() {
					types.AddAll(f.Types())
				}
				for _, m := range class.AllMethods() {
					types.AddAll(m.Types())
				}
			}
			pkg := class.Type().Package()
			if cfg.Package != "" {
				pkg = cfg.Package
			}
			table := java.NewReferenceTable(pkg, types)

			out := cmd.OutOrStdout()
			for _, imp := range table.Imports() {
				fmt.Fprintf(out, "import %s;\n", imp)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, class.Declaration(table))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flattened, "flattened", false, "include the types of inherited members")
	cmd.Flags().String("package", "", "package the imports are computed for")

	return cmd
}

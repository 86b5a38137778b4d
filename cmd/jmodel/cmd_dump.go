package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/format"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [class...]",
		Short: "Dump the flattened model of classes",
		Long: `Dump the flattened model of the named classes, or of every declared class.

Classes are named by qualified name or by any unique dotted suffix of it.
The java format writes an implementation skeleton: a subclass that calls
every reachable constructor and stubs every abstract method.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLoader(cfg)
			if err != nil {
				return err
			}
			classes, err := selectClasses(l, args)
			if err != nil {
				return err
			}

			var javaOpts []format.JavaOption
			if cfg.Package != "" {
				javaOpts = append(javaOpts, format.WithPackage(cfg.Package))
			}
			if cfg.ClassName != "" {
				if len(classes) != 1 {
					return errors.New("--class-name needs exactly one class")
				}
				javaOpts = append(javaOpts, format.WithClassName(cfg.ClassName))
			}

			enc, err := format.New(cfg.Format, os.Stdout, javaOpts...)
			if err != nil {
				return err
			}
			for _, class := range classes {
				if err := enc.Encode(class); err != nil {
					return errors.Wrapf(err, "encoding %s", class.QualifiedName())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "line", "output format (line, json, java)")
	cmd.Flags().String("package", "", "package of the generated class (java format)")
	cmd.Flags().String("class-name", "", "name of the generated class (java format)")

	return cmd
}

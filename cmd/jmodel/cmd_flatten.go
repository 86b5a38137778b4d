package main

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java"
)

func newFlattenCmd() *cobra.Command {
	var abstractOnly bool

	cmd := &cobra.Command{
		Use:   "flatten <class>",
		Short: "Show the inherited member surface of a class as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLoader(cfg)
			if err != nil {
				return err
			}
			class, err := findClass(l, args[0])
			if err != nil {
				return err
			}
			return renderFlattened(class, abstractOnly)
		},
	}

	cmd.Flags().BoolVar(&abstractOnly, "abstract", false, "only list methods left to implement")

	return cmd
}

func renderFlattened(class *java.Class, abstractOnly bool) error {
	table := java.NewReferenceTable(class.Type().Package(), class.Types())
	pterm.DefaultSection.Println(class.Declaration(table))

	data := pterm.TableData{{"Kind", "Visibility", "Modifiers", "Member"}}
	if !abstractOnly {
		for _, f := range class.AllFields() {
			data = append(data, []string{
				"field",
				string(f.Visibility()),
				modifierCell(f.Modifiers()),
				f.Type().Render(table, false) + " " + f.Name(),
			})
		}
	}
	methods := class.AllMethods()
	if abstractOnly {
		methods = class.AbstractMethods()
	}
	for _, m := range methods {
		data = append(data, []string{
			"method",
			string(m.Visibility()),
			modifierCell(m.Modifiers()),
			strings.TrimPrefix(m.Signature(table), m.Modifiers().Prefix()),
		})
	}

	if len(data) == 1 {
		pterm.Info.Println("no members")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func modifierCell(m java.Modifiers) string {
	m.Visibility = java.VisibilityPackage
	return strings.Join(m.Keywords(), " ")
}

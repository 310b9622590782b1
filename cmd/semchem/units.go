package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semchem/quantity"
	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

// parseUnit reads expr against the named dimension. Without a dimension
// every registered symbol is considered and the parsed dimension is kept.
func parseUnit(expr, dimension string, strict bool) (units.Unit, error) {
	if dimension == "" {
		return units.ExtractUnits(expr, units.AnyDimension, false)
	}
	dim, err := units.ParseDimension(dimension)
	if err != nil {
		return units.Unit{}, err
	}
	return units.ExtractUnits(expr, dim, strict)
}

func unitsCmd(a *app) *cobra.Command {
	var dimension string

	cmd := &cobra.Command{
		Use:   "units <expression>",
		Short: "Parse a unit expression",
		Example: `  semchem units "Kh2/(km/s)-1/2"
  semchem units "mg/mL" --dimension mass/length^3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := parseUnit(args[0], dimension, a.cfg.Units.Strict)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Unit:      %s\n", displayUnit(u))
			fmt.Fprintf(out, "Dimension: %s\n", u.Dimension())
			fmt.Fprintf(out, "Standard:  %s\n", displayUnit(units.StandardUnit(u.Dimension())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dimension, "dimension", "d", "", "Expected dimension (e.g. length/time)")
	return cmd
}

func convertCmd(a *app) *cobra.Command {
	var dimension string

	cmd := &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a value between units",
		Example: `  semchem convert 120-125 °C K
  semchem convert "5.0 ± 0.1" km/h m/s --dimension length/time`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseUnit(args[1], dimension, true)
			if err != nil {
				return fmt.Errorf("from units: %w", err)
			}
			to, err := parseUnit(args[2], from.Dimension().String(), true)
			if err != nil {
				return fmt.Errorf("to units: %w", err)
			}

			q := quantity.SchemaFor(from.Dimension()).New()
			if err := quantity.Populate(q, args[0], args[1], false); err != nil {
				return err
			}
			// The free text units may have been read against a narrower
			// symbol table; keep the unit parsed above.
			if err := q.Set(quantity.FieldUnits, from); err != nil {
				return err
			}
			if err := quantity.ConvertTo(q, to); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatQuantity(q))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dimension, "dimension", "d", "", "Dimension of the units (e.g. temperature)")
	return cmd
}

func displayUnit(u units.Unit) string {
	if s := u.String(); s != "" {
		return s
	}
	return "(none)"
}

// formatQuantity renders "393.15-398.15 Kelvin" or "1.4 ± 0.03 Meter^(1) Second^(-1)".
func formatQuantity(q *record.Record) string {
	values := q.Range(quantity.FieldValue)
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', 10, 64)
	}
	s := strings.Join(parts, "-")
	if e, ok := q.Float(quantity.FieldError); ok {
		s += " ± " + strconv.FormatFloat(e, 'g', 10, 64)
	}
	return s + " " + q.Unit(quantity.FieldUnits).String()
}

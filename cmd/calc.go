package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kubika/internal/geometry"
	"github.com/abhisek/kubika/internal/questionbank"
)

var calcCmd = &cobra.Command{
	Use:   "calc <shape>",
	Short: "Compute volume, surface area and diagonals of a solid",
	Long: `Compute the measurements of a solid from its dimensions.
Dimensions left unset use the worked example values.

  kubika calc cube --side 6
  kubika calc kerucut --radius 6 --height 8`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: calcShapeNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := geometry.Find(args[0])
		if err != nil {
			return err
		}

		dims, err := calcDimensions(cmd, shape)
		if err != nil {
			return err
		}
		quantities, err := shape.Calculate(dims)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", shape.Name())
		for _, p := range shape.Params {
			fmt.Printf("  %s (%s) = %s cm\n", p.Label, p.Symbol, formatDim(dims[p.Key]))
		}
		fmt.Println(strings.Repeat("─", 64))
		for _, q := range quantities {
			fmt.Printf("%-26s  %-32s  %s\n", q.Name, q.Formula, q.Format())
		}
		return nil
	},
}

var calcFlags = []string{
	geometry.Side, geometry.Length, geometry.Width, geometry.Height,
	geometry.Radius, geometry.Base, geometry.BaseHeight,
}

func init() {
	for _, key := range calcFlags {
		calcCmd.Flags().Float64(key, 0, "Dimension in cm: "+key)
	}
}

// calcDimensions takes each parameter from its flag when set and from the
// example value otherwise. Flags the shape does not use are rejected.
func calcDimensions(cmd *cobra.Command, shape geometry.Shape) (geometry.Dimensions, error) {
	dims := shape.Defaults()
	used := make(map[string]bool, len(shape.Params))
	for _, p := range shape.Params {
		used[p.Key] = true
		if cmd.Flags().Changed(p.Key) {
			v, err := cmd.Flags().GetFloat64(p.Key)
			if err != nil {
				return nil, err
			}
			dims[p.Key] = v
		}
	}

	var unused []string
	for _, key := range calcFlags {
		if cmd.Flags().Changed(key) && !used[key] {
			unused = append(unused, "--"+key)
		}
	}
	if len(unused) > 0 {
		return nil, fmt.Errorf("%s does not use %s", shape.Name(), strings.Join(unused, ", "))
	}
	return dims, nil
}

func calcShapeNames() []string {
	var names []string
	for _, t := range questionbank.AllTopics() {
		names = append(names, string(t))
	}
	return names
}

func formatDim(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"odrfit/domain/model"
)

var modelForms = map[model.Kind]string{
	model.KindLinear:      "f = b0*x (through the origin)",
	model.KindPolynomial:  "f = b0 + b1*x + ... + bn*x^n",
	model.KindExponential: "f = b0*exp(b1*x)",
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the supported model shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, kind := range model.Kinds() {
				fmt.Fprintf(out, "%-12s %s\n", kind, modelForms[kind])
			}
			return nil
		},
	}
}

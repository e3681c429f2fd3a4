package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

// CPFCmd creates the cpf command
func CPFCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cpf <value>",
		Short: "Format a CPF and check its verification digits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatted := cpf.Format(args[0])
			if cpf.IsValid(args[0]) {
				fmt.Printf("%s %s✓ válido%s\n", formatted, colorGreen, colorReset)
			} else {
				fmt.Printf("%s %s✗ CPF inválido%s\n", formatted, colorRed, colorReset)
			}
			return nil
		},
	}
}

package cli

import (
	"errors"

	"github.com/Dlordkendex/gas2nel/pkg/estimator"
	"github.com/spf13/cobra"
)

var activePolicy *estimator.Policy

// SetPolicy wires the scoring policy the policy command renders.
func SetPolicy(p estimator.Policy) {
	activePolicy = &p
}

// NewPolicyCmd builds the policy command.
func NewPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Show the active scoring policy",
		Long:  `Print the active weights and ceilings as TOML, in the format the policy file uses.`,
		Run: func(cmd *cobra.Command, args []string) {
			if activePolicy == nil {
				logErrorCmd(*cmd, errors.New("no policy configured"))

				return
			}

			rendered, err := activePolicy.TOML()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			cmd.Println(rendered)
		},
	}
}

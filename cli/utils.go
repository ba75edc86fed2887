package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

func logJSONCmd(cmd cobra.Command, items ...any) {
	for _, item := range items {
		m, err := json.Marshal(item)
		if err != nil {
			logErrorCmd(cmd, err)

			return
		}

		pj, err := prettyjson.Format(m)
		if err != nil {
			logErrorCmd(cmd, err)

			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", string(pj))
	}
}

func logErrorCmd(cmd cobra.Command, err error) {
	boldRed := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(cmd.ErrOrStderr(), "\nerror: %s\n\n", boldRed.Sprint(err.Error()))
}

func logSuccessCmd(cmd cobra.Command, msg string) {
	boldGreen := color.New(color.FgGreen, color.Bold)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", boldGreen.Sprint(msg))
}

func logUsageCmd(cmd cobra.Command, usage string) {
	fmt.Fprintf(cmd.OutOrStdout(), "\nusage: %s\n\n", usage)
}

package cmd

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sort-bench/pkg/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available sorting strategies",
	Run: func(cmd *cobra.Command, args []string) {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Name", "Parallel", "Description"})
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)

		for _, st := range model.AllStrategies() {
			table.Append([]string{st.String(), strconv.FormatBool(st.Parallel()), st.Description()})
		}
		table.Render()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

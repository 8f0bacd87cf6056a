package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draddo11/Holiday/pkg/travel"
)

// landmarksCommand lists the built-in landmark table.
func (c *CLI) landmarksCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "landmarks",
		Short: "List the built-in landmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lms := travel.Default().Landmarks
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(lms)
			}
			fmt.Println(landmarkTable(lms))
			printNextStep("Use one", appName+" composite PHOTO --landmark "+lms[0].ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")

	return cmd
}

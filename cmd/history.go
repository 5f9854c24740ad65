package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved songs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, err := loadService(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		files, err := svc.History(ctx)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Println(infoStyle.Render("No saved songs yet. Use 'songcraft generate --save'."))
		}
		for _, f := range files {
			fmt.Println(f)
		}

		if count, limit := svc.UsageToday(); limit > 0 {
			fmt.Println(infoStyle.Render(fmt.Sprintf("Requests today: %d/%d", count, limit)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Suggest a song topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, err := loadService(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		topic, err := svc.SuggestTopic(ctx)
		if err != nil {
			return err
		}

		fmt.Println(topic)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topicCmd)
}

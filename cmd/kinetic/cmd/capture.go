package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kinetic/internal/application/commands"
)

var captureFromClipboard bool

var captureCmd = &cobra.Command{
	Use:   "capture [text...]",
	Short: "Capture a new task into the Coming Up section",
	Long: `Append a new unscheduled task to the scheduling document. The next
sync assigns it an id. Inline #tags and @people are picked up then.

Examples:
  kinetic capture Renew the car insurance
  kinetic capture "Call @maria about the launch #S3-2"
  kinetic capture --paste`,
	RunE: func(cmd *cobra.Command, args []string) error {
		captureCmd := &commands.CaptureCommand{
			Docs:          docs,
			S3Path:        cfg.Paths.S3,
			Text:          strings.Join(args, " "),
			FromClipboard: captureFromClipboard,
		}
		result, err := captureCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	captureCmd.Flags().BoolVarP(&captureFromClipboard, "paste", "p", false, "capture the clipboard contents")
	rootCmd.AddCommand(captureCmd)
}

package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"
	"github.com/sparkprep/sparkprep/usecase/webinar"
)

// WebinarMain is wrapped by NewWebinarCommand and only exported for testing
// purposes.
var WebinarMain *webinar.Main

// NewWebinarCommand returns a new cobra command wrapping WebinarMain.
func NewWebinarCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	WebinarMain = webinar.NewMain()
	WebinarMain.Out = stdout
	webinarCommand := &cobra.Command{
		Use:   "webinar",
		Short: "prime the trip archives and load, cache and query them on Spark",
		Long: `Runs the full walkthrough: prime the archives, derive their all-text
schema, register them as a table on the Spark Connect endpoint, cache the
table, and show the demo queries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := WebinarMain.Run(); err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := webinarCommand.Flags()
	if err := commandeer.Flags(flags, WebinarMain); err != nil {
		panic(err)
	}
	return webinarCommand
}

func init() {
	subcommandFns["webinar"] = NewWebinarCommand
}

package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"
	"github.com/sparkprep/sparkprep/usecase/features"
)

// FeaturesMain is wrapped by NewFeaturesCommand and only exported for
// testing purposes.
var FeaturesMain *features.Main

// NewFeaturesCommand returns a new cobra command wrapping FeaturesMain.
func NewFeaturesCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	FeaturesMain = features.NewMain()
	FeaturesMain.Out = stdout
	featuresCommand := &cobra.Command{
		Use:   "features",
		Short: "derive binarized and bucketized columns from primed archives",
		Long: `Primes the archives if needed, streams their rows through the configured
binarize/bucketize transforms, and writes the widened archives to the
feature directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := FeaturesMain.Run(); err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := featuresCommand.Flags()
	if err := commandeer.Flags(flags, FeaturesMain); err != nil {
		panic(err)
	}
	return featuresCommand
}

func init() {
	subcommandFns["features"] = NewFeaturesCommand
}

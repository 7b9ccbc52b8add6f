package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"
	"github.com/sparkprep/sparkprep/usecase/prime"
)

// PrimeMain is wrapped by NewPrimeCommand and only exported for testing
// purposes.
var PrimeMain *prime.Main

// NewPrimeCommand returns a new cobra command wrapping PrimeMain.
func NewPrimeCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	PrimeMain = prime.NewMain()
	PrimeMain.Out = stdout
	primeCommand := &cobra.Command{
		Use:   "prime",
		Short: "download dataset archives once and print their derived schema",
		Long: `Fetches each archive URL that isn't already on local disk, then derives
the column schema from the first archive's header (every column declared
text) and prints it as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := PrimeMain.Run(); err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := primeCommand.Flags()
	if err := commandeer.Flags(flags, PrimeMain); err != nil {
		panic(err)
	}
	return primeCommand
}

func init() {
	subcommandFns["prime"] = NewPrimeCommand
}

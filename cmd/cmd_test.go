package cmd_test

import (
	"os"
	"testing"

	"github.com/sparkprep/sparkprep/cmd"
)

func TestRootCommandSubcommands(t *testing.T) {
	rc := cmd.NewRootCommand(os.Stdin, os.Stdout, os.Stderr)

	var prime, webinar, features bool
	for _, sub := range rc.Commands() {
		switch sub.Name() {
		case "prime":
			prime = true
			for _, name := range []string{"dir", "sample-rows", "region"} {
				if sub.Flags().Lookup(name) == nil {
					t.Fatalf("prime command missing flag %s", name)
				}
			}
		case "webinar":
			webinar = true
			for _, name := range []string{"dir", "table", "spark-host", "cache"} {
				if sub.Flags().Lookup(name) == nil {
					t.Fatalf("webinar command missing flag %s", name)
				}
			}
		case "features":
			features = true
			for _, name := range []string{"dir", "out-dir", "binarize", "bucketize"} {
				if sub.Flags().Lookup(name) == nil {
					t.Fatalf("features command missing flag %s", name)
				}
			}
		}
	}
	if !prime || !webinar || !features {
		t.Fatalf("missing subcommands: prime=%v webinar=%v features=%v", prime, webinar, features)
	}

	if cmd.PrimeMain == nil || cmd.WebinarMain == nil {
		t.Fatal("command mains not built")
	}
	if len(cmd.PrimeMain.URLs) != 2 {
		t.Fatalf("wrong default urls: %v", cmd.PrimeMain.URLs)
	}
	if cmd.WebinarMain.Table != "trips" {
		t.Fatalf("wrong default table: %v", cmd.WebinarMain.Table)
	}
}

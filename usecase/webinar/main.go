// Package webinar runs the whole walkthrough: prime the trip archives,
// derive their schema, register them as a table on a Spark Connect
// endpoint, cache the table, and run the demo queries.
package webinar

import (
	"log"

	"github.com/sparkprep/sparkprep"
	"github.com/sparkprep/sparkprep/spark"
	"github.com/sparkprep/sparkprep/usecase/prime"
)

// Main holds the options for the webinar subcommand.
type Main struct {
	prime.Main `flag:"!embed"`

	Table     string   `help:"Table name to register the primed archives under."`
	SparkHost string   `help:"Spark Connect remote address."`
	Cache     bool     `help:"CACHE TABLE after registering."`
	Queries   []string `help:"SQL statements to run and show once the table is registered."`
	ShowRows  int      `help:"Rows to show per query."`
}

func NewMain() *Main {
	return &Main{
		Main:      *prime.NewMain(),
		Table:     "trips",
		SparkHost: "sc://localhost:15002",
		Cache:     true,
		Queries: []string{
			"SELECT Payment_type, COUNT(*) AS trips FROM trips GROUP BY Payment_type ORDER BY trips DESC",
			"SELECT AVG(CAST(Trip_distance AS DOUBLE)) AS avg_distance FROM trips",
		},
		ShowRows: 20,
	}
}

// Run primes the archives, connects to Spark, and loads and queries the
// table.
func (m *Main) Run() error {
	paths, err := m.Prime()
	if err != nil {
		return err
	}
	schema, err := sparkprep.DeriveSchema(paths[0], m.SampleRows)
	if err != nil {
		return err
	}
	log.Printf("derived %d text columns from %s", len(schema), paths[0])

	sess, err := spark.Connect(m.SparkHost)
	if err != nil {
		return err
	}
	reg := spark.NewRegistrar(sess)
	defer reg.Close()
	return m.Load(reg, schema)
}

// Load registers the primed directory as Table with schema, caches it if
// asked, and shows each demo query. Split from Run so it can be driven with
// a fake session in tests.
func (m *Main) Load(reg *spark.Registrar, schema sparkprep.Schema) error {
	if err := reg.RegisterCSV(m.Table, m.Dir, schema); err != nil {
		return err
	}
	log.Printf("registered table '%s' over %s", m.Table, m.Dir)
	if m.Cache {
		if err := reg.Cache(m.Table); err != nil {
			return err
		}
		log.Printf("cached table '%s'", m.Table)
	}
	for _, q := range m.Queries {
		log.Printf("> %s", q)
		if err := reg.Show(q, m.ShowRows); err != nil {
			return err
		}
	}
	return nil
}

package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/openevo/archipelago/pkg/archipelago"
	"github.com/openevo/archipelago/pkg/island"
)

// ConsoleReporter renders human-readable island and archipelago reports.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a reporter writing to the given writer.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// ReportIsland prints the island's algorithm, cumulative evolution time,
// migration probability, policies and a terse population summary. With
// verbose set, every individual is listed.
func (r *ConsoleReporter) ReportIsland(isl *island.Island, verbose bool) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(isl.Name())

	algo := isl.Algorithm()
	pop := isl.Population()
	champ := pop.Champion()

	t.AppendRows([]table.Row{
		{"Algorithm", fmt.Sprintf("%s [%s]", algo.Name(), algo)},
		{"Evolution time", isl.EvolutionTime()},
		{"Migration probability", fmt.Sprintf("%.1f%%", isl.MigrationProbability()*100)},
		{"Selection policy", isl.SelectionPolicy().Name()},
		{"Replacement policy", isl.ReplacementPolicy().Name()},
		{"Population size", pop.Size()},
	})
	if len(champ.F) > 0 {
		t.AppendRow(table.Row{"Champion fitness", fmt.Sprintf("%.6g", champ.F[0])})
	}
	t.Render()

	if verbose {
		r.reportPopulation(isl)
	}
}

// reportPopulation lists every individual's current and best fitness.
func (r *ConsoleReporter) reportPopulation(isl *island.Island) {
	pop := isl.Population()

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Current fitness", "Best fitness", "Dominates"})
	for i := 0; i < pop.Size(); i++ {
		ind := pop.Individual(i)
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("%.6g", ind.CurF[0]),
			fmt.Sprintf("%.6g", ind.BestF[0]),
			len(pop.DomList(i)),
		})
	}
	t.Render()
}

// ReportArchipelago prints a one-row-per-island summary of the whole
// archipelago.
func (r *ConsoleReporter) ReportArchipelago(a *archipelago.Archipelago) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetTitle(fmt.Sprintf("archipelago (%s, %d islands)", a.Topology().Name(), a.Size()))
	t.AppendHeader(table.Row{"Island", "Champion fitness", "Evolution time", "Migr. prob."})
	for _, isl := range a.Islands() {
		champ := isl.Population().Champion()
		fitness := "n/a"
		if len(champ.F) > 0 {
			fitness = fmt.Sprintf("%.6g", champ.F[0])
		}
		t.AppendRow(table.Row{
			isl.Name(),
			fitness,
			isl.EvolutionTime(),
			fmt.Sprintf("%.1f%%", isl.MigrationProbability()*100),
		})
	}
	t.Render()
}

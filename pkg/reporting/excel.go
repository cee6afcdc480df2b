package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/openevo/archipelago/pkg/archipelago"
	"github.com/openevo/archipelago/pkg/population"
)

// populationDump is the slice of the population API the exporter needs.
type populationDump interface {
	Size() int
	Individual(i int) population.Individual
}

// ExcelReporter exports archipelago results to an .xlsx workbook.
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// ExportArchipelago writes one summary sheet plus one sheet per island with
// the full population dump.
func (r *ExcelReporter) ExportArchipelago(a *archipelago.Archipelago, path string) error {
	fx := excelize.NewFile()
	defer fx.Close()

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	summary := "Summary"
	if err := fx.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	headers := []interface{}{"Island", "Champion fitness", "Evolution time (ms)", "Migration probability", "Population size"}
	if err := fx.SetSheetRow(summary, "A1", &headers); err != nil {
		return err
	}
	if err := fx.SetCellStyle(summary, "A1", "E1", headerStyle); err != nil {
		return err
	}

	for row, isl := range a.Islands() {
		pop := isl.Population()
		champ := pop.Champion()
		fitness := ""
		if len(champ.F) > 0 {
			fitness = fmt.Sprintf("%.9g", champ.F[0])
		}
		cells := []interface{}{
			isl.Name(),
			fitness,
			isl.EvolutionTime().Milliseconds(),
			isl.MigrationProbability(),
			pop.Size(),
		}
		if err := fx.SetSheetRow(summary, fmt.Sprintf("A%d", row+2), &cells); err != nil {
			return err
		}

		if err := r.writeIslandSheet(fx, headerStyle, isl.Name(), pop); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeIslandSheet(fx *excelize.File, headerStyle int, name string, pop populationDump) error {
	if _, err := fx.NewSheet(name); err != nil {
		return err
	}
	headers := []interface{}{"#", "Current fitness", "Best fitness"}
	if err := fx.SetSheetRow(name, "A1", &headers); err != nil {
		return err
	}
	if err := fx.SetCellStyle(name, "A1", "C1", headerStyle); err != nil {
		return err
	}
	for i := 0; i < pop.Size(); i++ {
		ind := pop.Individual(i)
		cells := []interface{}{i, ind.CurF[0], ind.BestF[0]}
		if err := fx.SetSheetRow(name, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	return nil
}

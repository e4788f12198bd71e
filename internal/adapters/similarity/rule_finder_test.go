package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"part-sourcing-service/internal/adapters/memory"
	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/ports"
)

func mlccRow(brand, code string, capacitancePF float64) domain.PartRow {
	return domain.PartRow{
		Brand: brand, Code: code, FamilySlug: "mlcc",
		Attrs: map[string]float64{"capacitance_pf": capacitancePF},
	}
}

func TestRuleFinderOrdersByAttributeDistance(t *testing.T) {
	registry := memory.NewPartRegistry()
	registry.AddFamily("mlcc", domain.TableMLCC)
	registry.AddRow(domain.TableMLCC, mlccRow("Murata", "GRM188", 100))
	registry.AddRow(domain.TableMLCC, mlccRow("Samsung", "CL10B", 150))
	registry.AddRow(domain.TableMLCC, mlccRow("TDK", "C1608", 110))
	registry.AddRow(domain.TableMLCC, mlccRow("Yageo", "CC0603", 400))

	base := &domain.PartMatch{
		Table:      domain.TableMLCC,
		FamilySlug: "mlcc",
		Row:        mlccRow("Murata", "GRM188", 100),
	}

	finder := NewRuleFinder(registry)
	mode, rows, err := finder.FindAlternatives(context.Background(), base, 6)

	require.NoError(t, err)
	assert.Equal(t, ports.ModeRuleFallback, mode)
	require.Len(t, rows, 3)
	assert.Equal(t, "TDK", rows[0].Brand)     // |110-100|/100 = 0.1
	assert.Equal(t, "Samsung", rows[1].Brand) // 0.5
	assert.Equal(t, "Yageo", rows[2].Brand)   // 3.0
}

func TestRuleFinderPenalizesForeignFamilies(t *testing.T) {
	registry := memory.NewPartRegistry()
	registry.AddFamily("mlcc", domain.TableMLCC)
	registry.AddFamily("chip_resistor", domain.TableChipResistor)
	registry.AddRow(domain.TableMLCC, mlccRow("Murata", "GRM188", 100))
	registry.AddRow(domain.TableMLCC, mlccRow("Samsung", "CL10B", 190))
	registry.AddRow(domain.TableChipResistor, domain.PartRow{
		Brand: "Yageo", Code: "RC0603", FamilySlug: "chip_resistor",
		Attrs: map[string]float64{"resistance_mohm": 100},
	})

	base := &domain.PartMatch{
		Table:      domain.TableMLCC,
		FamilySlug: "mlcc",
		Row:        mlccRow("Murata", "GRM188", 100),
	}

	_, rows, err := NewRuleFinder(registry).FindAlternatives(context.Background(), base, 6)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Same family at 0.9 beats foreign family at 1.0 (the resistor has no
	// capacitance attribute, so only the family mismatch counts).
	assert.Equal(t, "Samsung", rows[0].Brand)
	assert.Equal(t, "Yageo", rows[1].Brand)
}

func TestRuleFinderTruncatesToK(t *testing.T) {
	registry := memory.NewPartRegistry()
	registry.AddFamily("mlcc", domain.TableMLCC)
	registry.AddRow(domain.TableMLCC, mlccRow("Murata", "GRM188", 100))
	for _, code := range []string{"A", "B", "C", "D", "E"} {
		registry.AddRow(domain.TableMLCC, mlccRow("Other", code, 100))
	}

	base := &domain.PartMatch{Table: domain.TableMLCC, FamilySlug: "mlcc", Row: mlccRow("Murata", "GRM188", 100)}

	_, rows, err := NewRuleFinder(registry).FindAlternatives(context.Background(), base, 2)

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRuleFinderEmptyRegistry(t *testing.T) {
	registry := memory.NewPartRegistry()
	base := &domain.PartMatch{Table: domain.TableMLCC, FamilySlug: "mlcc", Row: mlccRow("Murata", "GRM188", 100)}

	mode, rows, err := NewRuleFinder(registry).FindAlternatives(context.Background(), base, 6)

	require.NoError(t, err)
	assert.Equal(t, ports.ModeRuleFallback, mode)
	assert.Empty(t, rows)
}

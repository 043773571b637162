package catalog

import (
	"testing"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

func TestLookup(t *testing.T) {
	a, ok := Lookup(domain.AgentWeatherAdvisory)
	if !ok {
		t.Fatalf("weather-advisory not in catalog")
	}
	if !a.AgentCapable() {
		t.Fatalf("weather-advisory should be agent capable, mode=%s", a.Mode)
	}

	if _, ok := Lookup("no-such-capability"); ok {
		t.Fatalf("unknown id resolved")
	}
}

func TestToolOnlyEntries(t *testing.T) {
	for _, id := range []string{domain.AgentFertilizer, domain.AgentIrrigationPlanning, domain.AgentAgriculturalNews} {
		a, ok := Lookup(id)
		if !ok {
			t.Fatalf("%s not in catalog", id)
		}
		if a.AgentCapable() {
			t.Fatalf("%s must be tool-only", id)
		}
	}
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	if len(all) != 13 {
		t.Fatalf("expected 13 catalog entries, got %d", len(all))
	}
	all[0].Name = "mutated"
	if again := All(); again[0].Name == "mutated" {
		t.Fatalf("All must return a copy")
	}
}

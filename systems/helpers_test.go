package systems

import (
	"testing"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/world"
)

var (
	forest = world.LocationType{Name: "forest", Probability: 1, Passable: true, Habitable: true}
	sea    = world.LocationType{Name: "sea"}
)

type strategyFunc func(components.Coordinate) world.LocationType

func (f strategyFunc) TypeAt(c components.Coordinate) world.LocationType { return f(c) }

func allForest(components.Coordinate) world.LocationType { return forest }

// testSpecies is a small fixed species set.
func testSpecies() []config.SpeciesConfig {
	return []config.SpeciesConfig{
		{Name: "wolf", Kind: config.KindPredator, Weight: 50, MaxPerCoordinate: 30, MoveSpeed: 3, FoodForSatiety: 8, StartSatietyRatio: 0.5},
		{Name: "rabbit", Kind: config.KindHerbivore, Weight: 2, MaxPerCoordinate: 150, MoveSpeed: 2, FoodForSatiety: 0.45, StartSatietyRatio: 0.5},
		{Name: "snail", Kind: config.KindHerbivore, Weight: 0.1, MaxPerCoordinate: 10, MoveSpeed: 0, FoodForSatiety: 0.1, StartSatietyRatio: 0.5},
		{Name: "grass", Kind: config.KindPlant, Weight: 1, MaxPerCoordinate: 5},
	}
}

func testDiets() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"wolf":   {"rabbit": 1.0},
		"rabbit": {"grass": 1.0},
		"snail":  {"grass": 1.0},
	}
}

type testEnv struct {
	area    *world.Area
	catalog *components.Catalog
}

func newTestEnv(t *testing.T, h, w int, strategy world.LocationCreationStrategy, mutate func(*config.Config)) *testEnv {
	t.Helper()
	cfg := config.Defaults().Clone()
	cfg.Species = testSpecies()
	cfg.Diets = testDiets()
	if mutate != nil {
		mutate(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	cat, err := components.NewCatalog(cfg, nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	area, err := world.NewArea(h, w, strategy)
	if err != nil {
		t.Fatalf("NewArea: %v", err)
	}
	return &testEnv{area: area, catalog: cat}
}

func (e *testEnv) species(t *testing.T, name string) components.Species {
	t.Helper()
	sp, ok := e.catalog.Lookup(name)
	if !ok {
		t.Fatalf("species %q not registered", name)
	}
	return sp
}

// spawn places n new organisms of a species at c.
func (e *testEnv) spawn(t *testing.T, name string, c components.Coordinate, n int) []*components.Organism {
	t.Helper()
	sp := e.species(t, name)
	out := make([]*components.Organism, 0, n)
	for i := 0; i < n; i++ {
		o, err := e.catalog.New(sp, c)
		if err != nil {
			t.Fatal(err)
		}
		if err := e.area.Add(o); err != nil {
			t.Fatal(err)
		}
		out = append(out, o)
	}
	return out
}

func at(r, c int) components.Coordinate {
	return components.Coordinate{Row: r, Col: c}
}

// guardedRand fails the test if a draw over an empty range is attempted.
type guardedRand struct {
	t     *testing.T
	inner Rand
}

func (g guardedRand) IntN(n int) int {
	if n <= 0 {
		g.t.Errorf("IntN(%d) called with empty range", n)
		return 0
	}
	return g.inner.IntN(n)
}

func (g guardedRand) Float64() float64 { return g.inner.Float64() }

package testutil

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
)

//go:embed testdata/*.yaml
var scenarioFS embed.FS

// Scenario is a named board position stored under testdata/
type Scenario struct {
	Name            string   `yaml:"name"`
	Rows            []string `yaml:"rows"`
	MyStock         [4]int   `yaml:"my_stock"`
	OppStock        [4]int   `yaml:"opp_stock"`
	RequiredActions int      `yaml:"required_actions"`
}

// LoadScenario reads testdata/<name>.yaml
func LoadScenario(name string) (Scenario, error) {
	raw, err := scenarioFS.ReadFile("testdata/" + name + ".yaml")
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario %s: %w", name, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Scenario{}, fmt.Errorf("decoding scenario %s: %w", name, err)
	}
	if s.RequiredActions == 0 {
		s.RequiredActions = 1
	}
	return s, nil
}

// Fixture parses the scenario board
func (s Scenario) Fixture() Fixture {
	return ParseRows(s.Rows...)
}

// World builds the scenario's WorldState with the given weights
func (s Scenario) World(weights core.Weights) *game.WorldState {
	return s.Fixture().World(weights, core.Stock(s.MyStock), core.Stock(s.OppStock), s.RequiredActions)
}

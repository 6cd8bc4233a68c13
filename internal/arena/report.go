package arena

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
)

// Report is the YAML summary of a finished match
type Report struct {
	GameID  string         `yaml:"game_id"`
	Seed    int64          `yaml:"seed"`
	Turns   int            `yaml:"turns"`
	Winner  string         `yaml:"winner"`
	Reason  string         `yaml:"reason"`
	Players []PlayerReport `yaml:"players"`
}

// PlayerReport is one side of the match
type PlayerReport struct {
	Side   string `yaml:"side"`
	Policy string `yaml:"policy"`
	Organs int    `yaml:"organs"`
	Stock  []int  `yaml:"stock,flow"`
}

// NewReport builds a report; names maps each side to its policy name
func NewReport(r game.Result, seed int64, names map[core.Owner]string) Report {
	rep := Report{
		GameID: r.GameID,
		Seed:   seed,
		Turns:  r.Turns,
		Winner: SideName(r.Winner),
		Reason: r.Reason,
	}
	for _, side := range game.Players {
		s := r.Stocks[side]
		rep.Players = append(rep.Players, PlayerReport{
			Side:   SideName(side),
			Policy: names[side],
			Organs: r.Organs[side],
			Stock:  s[:],
		})
	}
	return rep
}

// WriteYAML encodes the report to w
func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

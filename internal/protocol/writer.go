package protocol

import (
	"bufio"
	"fmt"
	"io"

	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
)

// FormatAction renders one command line (without newline)
func FormatAction(a core.Action) string {
	grow, ok := a.(*core.GrowAction)
	if !ok || grow == nil {
		return "WAIT"
	}
	line := fmt.Sprintf("GROW %d %d %d %s", grow.ParentID, grow.Target.X, grow.Target.Y, grow.Organ)
	if grow.Dir != core.NoDirection {
		line += " " + grow.Dir.String()
	}
	return line
}

// Writer emits commands, one line per action slot
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteActions writes every action and flushes, so the referee sees the whole turn at once
func (w *Writer) WriteActions(actions []core.Action) error {
	for _, a := range actions {
		if _, err := w.w.WriteString(FormatAction(a) + "\n"); err != nil {
			return fmt.Errorf("writing action: %w", err)
		}
	}
	return w.w.Flush()
}

// EncodeDimensions writes the match header line
func EncodeDimensions(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "%d %d\n", width, height)
	return err
}

// EncodeTurn writes ws as a referee snapshot. It is the inverse of Reader.ReadTurn
// and lets the local arena drive a bot through the real protocol.
func EncodeTurn(w io.Writer, ws *game.WorldState) error {
	bw := bufio.NewWriter(w)

	var lines []string
	for i := 0; i < ws.Grid.Len(); i++ {
		c := ws.Grid.At(i)
		switch c.Kind {
		case core.CellWall:
			lines = append(lines, fmt.Sprintf("%d %d WALL -1 0 X 0 0", c.Pos.X, c.Pos.Y))
		case core.CellProtein:
			lines = append(lines, fmt.Sprintf("%d %d %s -1 0 X 0 0", c.Pos.X, c.Pos.Y, c.Protein))
		case core.CellOrgan:
			o, ok := ws.Organ(c.OrganID)
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("%d %d %s %d %d %s %d %d",
				o.Pos.X, o.Pos.Y, o.Type, int(o.Owner), o.ID, o.Dir, o.ParentID, o.RootID))
		}
	}

	fmt.Fprintf(bw, "%d\n", len(lines))
	for _, l := range lines {
		fmt.Fprintln(bw, l)
	}
	for _, s := range []core.Stock{ws.MyStock, ws.OppStock} {
		fmt.Fprintf(bw, "%d %d %d %d\n", s[0], s[1], s[2], s[3])
	}
	fmt.Fprintf(bw, "%d\n", ws.RequiredActions)
	return bw.Flush()
}

// Package protocol reads the referee's line-oriented turn snapshots and
// writes our commands back.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
)

// FlagFunc is called for every snapshot line that was skipped
type FlagFunc func(line string, cause error)

// Reader decodes the referee input
type Reader struct {
	sc     *bufio.Scanner
	line   int
	logger zerolog.Logger
	onFlag FlagFunc
}

// NewReader wraps r
func NewReader(r io.Reader, logger zerolog.Logger) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{
		sc:     sc,
		logger: logger.With().Str("component", "protocol_reader").Logger(),
	}
}

// OnFlagged registers a callback for skipped lines
func (r *Reader) OnFlagged(fn FlagFunc) { r.onFlag = fn }

func (r *Reader) next() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	r.line++
	return strings.TrimSpace(r.sc.Text()), nil
}

func (r *Reader) ints(want int) ([]int, error) {
	text, err := r.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(text)
	if len(fields) != want {
		return nil, fmt.Errorf("line %d %q: want %d integers: %w", r.line, text, want, ErrMalformedLine)
	}
	out := make([]int, want)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", r.line, text, ErrMalformedLine)
		}
		out[i] = v
	}
	return out, nil
}

// ReadDimensions reads the first line of the match: grid width and height
func (r *Reader) ReadDimensions() (int, int, error) {
	v, err := r.ints(2)
	if err != nil {
		return 0, 0, fmt.Errorf("reading dimensions: %w", err)
	}
	if v[0] <= 0 || v[1] <= 0 {
		return 0, 0, fmt.Errorf("dimensions %dx%d: %w", v[0], v[1], ErrMalformedLine)
	}
	return v[0], v[1], nil
}

// ReadTurn rebuilds ws from the next snapshot. It returns io.EOF when the
// stream ends cleanly between turns.
func (r *Reader) ReadTurn(ws *game.WorldState) error {
	count, err := r.ints(1)
	if err != nil {
		return err
	}

	ws.Reset()
	for i := 0; i < count[0]; i++ {
		text, err := r.next()
		if err != nil {
			return r.truncated(err)
		}
		e, err := ParseEntity(text)
		if err == nil {
			err = ws.Apply(e)
		}
		if err != nil {
			if !flaggable(err) {
				return fmt.Errorf("line %d: %w", r.line, err)
			}
			r.flag(text, err)
		}
	}

	mine, err := r.ints(4)
	if err != nil {
		return r.truncated(err)
	}
	theirs, err := r.ints(4)
	if err != nil {
		return r.truncated(err)
	}
	required, err := r.ints(1)
	if err != nil {
		return r.truncated(err)
	}

	ws.MyStock = core.NewStock(mine[0], mine[1], mine[2], mine[3])
	ws.OppStock = core.NewStock(theirs[0], theirs[1], theirs[2], theirs[3])
	ws.RequiredActions = required[0]
	ws.Turn++
	return nil
}

func (r *Reader) truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("line %d: %w", r.line, ErrTruncated)
	}
	return err
}

func (r *Reader) flag(line string, cause error) {
	r.logger.Warn().
		Int("line", r.line).
		Str("text", line).
		Err(cause).
		Msg("Skipping snapshot line")
	if r.onFlag != nil {
		r.onFlag(line, cause)
	}
}

func flaggable(err error) bool {
	return errors.Is(err, core.ErrUnknownEntityType) ||
		errors.Is(err, core.ErrUnknownOwner) ||
		errors.Is(err, core.ErrUnknownDirection) ||
		errors.Is(err, core.ErrInvalidCoordinates)
}

// ParseEntity decodes `x y type owner organId organDir organParentId organRootId`
func ParseEntity(line string) (core.Entity, error) {
	f := strings.Fields(line)
	if len(f) != 8 {
		return core.Entity{}, fmt.Errorf("%q: want 8 fields: %w", line, ErrMalformedLine)
	}

	var nums [8]int
	for _, i := range []int{0, 1, 3, 4, 6, 7} {
		v, err := strconv.Atoi(f[i])
		if err != nil {
			return core.Entity{}, fmt.Errorf("%q: field %d: %w", line, i, ErrMalformedLine)
		}
		nums[i] = v
	}
	pos := core.NewCoordinate(nums[0], nums[1])

	code := f[2]
	if code == "WALL" {
		return core.WallEntity(pos), nil
	}
	if p, ok := core.ParseProteinType(code); ok {
		return core.ProteinEntity(pos, p), nil
	}
	kind, ok := core.ParseOrganType(code)
	if !ok {
		return core.Entity{}, fmt.Errorf("%q: %w", code, core.ErrUnknownEntityType)
	}

	owner, err := core.ParseOwner(nums[3])
	if err != nil {
		return core.Entity{}, err
	}
	dir, err := core.ParseDirection(f[5])
	if err != nil {
		return core.Entity{}, err
	}
	return core.OrganEntity(core.Organ{
		ID:       nums[4],
		Owner:    owner,
		ParentID: nums[6],
		RootID:   nums[7],
		Pos:      pos,
		Type:     kind,
		Dir:      dir,
	}), nil
}

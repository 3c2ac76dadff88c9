package board

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// Read parses a .board file:
//
//	size 16 17
//	hex 0101 0 "woods:1;foliage_elev:2" "grass"
//	end
//
// Hexes not listed stay clear at level 0. Lines starting with # are
// comments.
func Read(r io.Reader) (*Board, error) {
	sc := bufio.NewScanner(r)
	var b *Board
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		tok, err := tokenize(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadFormat, line, err)
		}
		switch tok[0] {
		case "size":
			if b != nil {
				return nil, fmt.Errorf("%w: line %d: duplicate size", ErrBadFormat, line)
			}
			if len(tok) != 3 {
				return nil, fmt.Errorf("%w: line %d: size needs width and height", ErrBadFormat, line)
			}
			w, errW := strconv.Atoi(tok[1])
			h, errH := strconv.Atoi(tok[2])
			if errW != nil || errH != nil || w <= 0 || h <= 0 {
				return nil, fmt.Errorf("%w: line %d: bad size %q %q", ErrBadFormat, line, tok[1], tok[2])
			}
			b = New(w, h)
		case "hex":
			if b == nil {
				return nil, fmt.Errorf("%w: line %d: hex before size", ErrBadFormat, line)
			}
			hex, err := parseHex(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadFormat, line, err)
			}
			if !b.Contains(hex.Coord) {
				return nil, fmt.Errorf("%w: line %d: hex %s off the board", ErrBadFormat, line, hex.Coord)
			}
			b.hexes[hex.Coord.Y*b.width+hex.Coord.X] = hex
		case "end":
			if b == nil {
				return nil, fmt.Errorf("%w: missing size", ErrBadFormat)
			}
			return b, nil
		default:
			// Unknown directives (options, tags, background) are not ours.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading board: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: missing size", ErrBadFormat)
	}
	return b, nil
}

// Write emits b in the format Read accepts.
func Write(w io.Writer, b *Board) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "size %d %d\n", b.width, b.height)
	wide := b.width > 99 || b.height > 99
	for _, h := range b.hexes {
		parts := make([]string, 0, len(h.terrains))
		for _, v := range h.Terrains() {
			parts = append(parts, formatTerrain(v))
		}
		fmt.Fprintf(bw, "hex %s %d %s %s\n", boardNum(h.Coord, wide), h.Level,
			strconv.Quote(strings.Join(parts, ";")), strconv.Quote(h.Theme))
	}
	fmt.Fprintln(bw, "end")
	return bw.Flush()
}

func boardNum(c hexgeo.Coord, wide bool) string {
	if wide {
		return fmt.Sprintf("%03d%03d", c.X+1, c.Y+1)
	}
	return c.BoardNum()
}

func parseBoardNum(s string) (hexgeo.Coord, error) {
	if len(s) != 4 && len(s) != 6 {
		return hexgeo.Invalid, fmt.Errorf("bad hex number %q", s)
	}
	half := len(s) / 2
	x, errX := strconv.Atoi(s[:half])
	y, errY := strconv.Atoi(s[half:])
	if errX != nil || errY != nil {
		return hexgeo.Invalid, fmt.Errorf("bad hex number %q", s)
	}
	return hexgeo.C(x-1, y-1), nil
}

func parseHex(tok []string) (*Hex, error) {
	if len(tok) < 3 || len(tok) > 5 {
		return nil, fmt.Errorf("hex needs number, level, terrains and theme")
	}
	c, err := parseBoardNum(tok[1])
	if err != nil {
		return nil, err
	}
	level, err := strconv.Atoi(tok[2])
	if err != nil {
		return nil, fmt.Errorf("bad level %q", tok[2])
	}
	h := NewHex(c, level)
	if len(tok) > 3 && tok[3] != "" {
		for _, part := range strings.Split(tok[3], ";") {
			v, err := parseTerrain(part)
			if err != nil {
				return nil, err
			}
			h.SetTerrain(v)
		}
	}
	if len(tok) > 4 {
		h.Theme = tok[4]
	}
	return h, nil
}

func parseTerrain(s string) (TerrainValue, error) {
	fields := strings.Split(s, ":")
	kind, ok := ParseTerrain(fields[0])
	if !ok {
		return TerrainValue{}, fmt.Errorf("unknown terrain %q", fields[0])
	}
	v := TerrainValue{Kind: kind}
	if len(fields) > 1 {
		lvl, err := strconv.Atoi(fields[1])
		if err != nil {
			return TerrainValue{}, fmt.Errorf("bad level in %q", s)
		}
		v.Level = lvl
	}
	if len(fields) > 2 {
		exits, err := strconv.Atoi(fields[2])
		if err != nil {
			return TerrainValue{}, fmt.Errorf("bad exits in %q", s)
		}
		v.Exits = exits
	}
	if len(fields) > 3 {
		return TerrainValue{}, fmt.Errorf("too many fields in %q", s)
	}
	return v, nil
}

func formatTerrain(v TerrainValue) string {
	if v.Exits != 0 {
		return fmt.Sprintf("%s:%d:%d", v.Kind, v.Level, v.Exits)
	}
	return fmt.Sprintf("%s:%d", v.Kind, v.Level)
}

// tokenize splits on blanks, keeping double-quoted strings whole.
func tokenize(line string) ([]string, error) {
	var out []string
	for {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			return out, nil
		}
		if line[0] == '"' {
			q, err := strconv.QuotedPrefix(line)
			if err != nil {
				return nil, fmt.Errorf("unterminated string")
			}
			s, err := strconv.Unquote(q)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
			line = line[len(q):]
			continue
		}
		end := strings.IndexAny(line, " \t")
		if end < 0 {
			end = len(line)
		}
		out = append(out, line[:end])
		line = line[end:]
	}
}

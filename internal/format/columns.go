package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseColumns reads two numeric columns separated by semicolons, tabs or
// spaces. Blank lines are skipped; lines whose first field is not numeric
// are skipped as long as no numeric row has been read yet, so a single
// heading row is tolerated. Extra columns are ignored.
func ParseColumns(r io.Reader) (x, y []float64, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line := 0
	for sc.Scan() {
		line++
		fields := splitColumns(sc.Text())
		if len(fields) == 0 {
			continue
		}
		a, errA := strconv.ParseFloat(fields[0], 64)
		if errA != nil && len(x) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("%w: line %d has a single column", ErrCorrupt, line)
		}
		b, errB := strconv.ParseFloat(fields[1], 64)
		if errA != nil || errB != nil {
			return nil, nil, fmt.Errorf("%w: line %d is not numeric: %q", ErrCorrupt, line, sc.Text())
		}
		x = append(x, a)
		y = append(y, b)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if len(x) == 0 {
		return nil, nil, fmt.Errorf("%w: no numeric rows", ErrCorrupt)
	}
	return x, y, nil
}

func splitColumns(line string) []string {
	if strings.Contains(line, ";") {
		var out []string
		for _, f := range strings.Split(line, ";") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
		return out
	}
	return strings.Fields(line)
}

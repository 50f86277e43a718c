package lock

import (
	"fmt"
	"strconv"
	"strings"
)

func encodeID(id int) string {
	return strconv.Itoa(id)
}

// EncodePath concatenates ids as decimal digits without delimiter.
func EncodePath(ids []int) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(encodeID(id))
	}
	return sb.String()
}

// ParseCode converts a code into node identities.
// Each character must be a digit naming a node.
func ParseCode(code string) ([]int, error) {
	ids := make([]int, 0, len(code))
	for i, r := range code {
		if r < '0' || r >= '0'+NodeCount {
			return nil, fmt.Errorf("%w: position %d: %q is not a node", ErrInvalidCode, i, r)
		}
		ids = append(ids, int(r-'0'))
	}
	return ids, nil
}

// ValidateCode checks that code can be traced on the grid: between 1 and 9
// distinct nodes.
func ValidateCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: empty code", ErrInvalidCode)
	}
	ids, err := ParseCode(code)
	if err != nil {
		return err
	}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: node %d repeats", ErrInvalidCode, id)
		}
		seen[id] = true
	}
	return nil
}

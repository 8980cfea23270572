// Package cefr defines the CEFR proficiency scale and maps aggregate scores
// onto it.
package cefr

import (
	"fmt"
	"strings"
)

// Level is a single CEFR level. Levels are totally ordered: A1 < A2 < ... < C2.
type Level int

const (
	A1 Level = iota + 1
	A2
	B1
	B2
	C1
	C2
)

// Levels lists every level in ascending order.
var Levels = []Level{A1, A2, B1, B2, C1, C2}

var levelNames = map[Level]string{
	A1: "A1",
	A2: "A2",
	B1: "B1",
	B2: "B2",
	C1: "C1",
	C2: "C2",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

func (l Level) Valid() bool {
	return l >= A1 && l <= C2
}

// Less reports whether l is a lower level than other.
func (l Level) Less(other Level) bool {
	return l < other
}

func ParseLevel(s string) (Level, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for _, l := range Levels {
		if levelNames[l] == key {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown CEFR level %q", s)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid CEFR level %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

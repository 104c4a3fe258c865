// Package identifier derives sequential human-readable identifiers of the form PREFIX-DIGITS.
package identifier

import (
	"fmt"
	"strings"

	"github.com/yigit/registry/internal/pkg/apperrors"
)

// Series is an identifier prefix family sharing one monotonic counter.
type Series struct {
	Name string
	Seed string
}

// Known series. Seeds are issued when a series has no prior identifier.
var (
	User       = Series{Name: "USER", Seed: "USER-0000001"}
	Lecturer   = Series{Name: "LEC", Seed: "LEC-00001"}
	Student    = Series{Name: "STD", Seed: "STD-0000001"}
	Department = Series{Name: "DEP", Seed: "DEP-00001"}
	Course     = Series{Name: "COURSE", Seed: "COURSE-00001"}
)

// All lists every known series.
func All() []Series {
	return []Series{User, Lecturer, Student, Department, Course}
}

// Next returns the identifier following lastID in the same series.
//
// The numeric suffix is incremented by one in place, carrying from the rightmost digit, so its
// width is kept. When every digit carries over a leading 1 is added: the width grows, it never
// shrinks, and there is no upper bound on the suffix.
func Next(lastID string) (string, error) {
	prefix, digits, err := split(lastID)
	if err != nil {
		return "", err
	}

	next := []byte(digits)
	i := len(next) - 1
	for ; i >= 0 && next[i] == '9'; i-- {
		next[i] = '0'
	}
	if i >= 0 {
		next[i]++
	} else {
		next = append([]byte{'1'}, next...)
	}
	return prefix + "-" + string(next), nil
}

// NextInSeries returns the seed of s when lastID is empty, otherwise Next(lastID).
// lastID must belong to s.
func NextInSeries(s Series, lastID string) (string, error) {
	if lastID == "" {
		return s.Seed, nil
	}
	prefix, _, err := split(lastID)
	if err != nil {
		return "", err
	}
	if prefix != s.Name {
		return "", fmt.Errorf("%w: %q is not in series %s", apperrors.ErrInvalidIdentifier, lastID, s.Name)
	}
	return Next(lastID)
}

// Validate checks that id has the PREFIX-DIGITS shape of series s.
func Validate(s Series, id string) error {
	prefix, _, err := split(id)
	if err != nil {
		return err
	}
	if prefix != s.Name {
		return fmt.Errorf("%w: %q is not in series %s", apperrors.ErrInvalidIdentifier, id, s.Name)
	}
	return nil
}

func split(id string) (prefix, digits string, err error) {
	i := strings.LastIndexByte(id, '-')
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("%w: %q", apperrors.ErrInvalidIdentifier, id)
	}
	prefix, digits = id[:i], id[i+1:]
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return "", "", fmt.Errorf("%w: %q has a non-numeric suffix", apperrors.ErrInvalidIdentifier, id)
		}
	}
	return prefix, digits, nil
}

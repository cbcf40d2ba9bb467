package kangaroo

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Statistics counts the group operations spent by a run. Each worker keeps its
// own counters; they are merged once the worker stops.
type Statistics struct {
	PointAdditions        uint64 `json:"pointAdditions"`
	ScalarMultiplications uint64 `json:"scalarMultiplications"`
	ScalarAdditions       uint64 `json:"scalarAdditions"`
	ScalarSubtractions    uint64 `json:"scalarSubtractions"`
}

// Nil receivers are no-ops, so disabled statistics cost a nil check.

func (s *Statistics) addPoint() {
	if s != nil {
		s.PointAdditions++
	}
}

func (s *Statistics) mulScalar() {
	if s != nil {
		s.ScalarMultiplications++
	}
}

func (s *Statistics) addScalar() {
	if s != nil {
		s.ScalarAdditions++
	}
}

func (s *Statistics) subScalar() {
	if s != nil {
		s.ScalarSubtractions++
	}
}

// Merge adds other into s.
func (s *Statistics) Merge(other Statistics) {
	s.PointAdditions += other.PointAdditions
	s.ScalarMultiplications += other.ScalarMultiplications
	s.ScalarAdditions += other.ScalarAdditions
	s.ScalarSubtractions += other.ScalarSubtractions
}

// MainOps counts the expensive operations: point additions and scalar
// multiplications.
func (s Statistics) MainOps() uint64 {
	return s.PointAdditions + s.ScalarMultiplications
}

// FullOps counts every tracked operation.
func (s Statistics) FullOps() uint64 {
	return s.MainOps() + s.ScalarAdditions + s.ScalarSubtractions
}

func (s Statistics) String() string {
	return fmt.Sprintf("point adds: %d, scalar muls: %d, scalar adds: %d, scalar subs: %d",
		s.PointAdditions, s.ScalarMultiplications, s.ScalarAdditions, s.ScalarSubtractions)
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (s Statistics) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("pointAdds", s.PointAdditions).
		Uint64("scalarMuls", s.ScalarMultiplications).
		Uint64("scalarAdds", s.ScalarAdditions).
		Uint64("scalarSubs", s.ScalarSubtractions).
		Uint64("mainOps", s.MainOps())
}

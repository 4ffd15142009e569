package roster

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultGrade is the grade label used when a draft omits one.
const DefaultGrade = "K"

// IEPActiveNote is written into IEPNotes when a student is flagged as having
// an IEP without any accompanying notes.
const IEPActiveNote = "IEP Active"

// Tier is the intervention level assigned to a student.
type Tier int

const (
	Tier1 Tier = 1 // core instruction
	Tier2 Tier = 2 // targeted small group
	Tier3 Tier = 3 // intensive intervention
)

// Valid reports whether t is one of the three intervention tiers.
func (t Tier) Valid() bool {
	return t >= Tier1 && t <= Tier3
}

func (t Tier) String() string {
	return fmt.Sprintf("Tier %d", int(t))
}

// Next returns the following tier, wrapping from 3 back to 1.
func (t Tier) Next() Tier {
	if !t.Valid() || t == Tier3 {
		return Tier1
	}
	return t + 1
}

// ParseTier accepts "1", "2", "3" or the "Tier N" display form.
func ParseTier(s string) (Tier, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "tier"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid tier %q: %w", s, err)
	}
	t := Tier(n)
	if !t.Valid() {
		return 0, fmt.Errorf("invalid tier %d: must be 1, 2 or 3", n)
	}
	return t, nil
}

// Student is one learner on the roster. Values handed out by the Store are
// snapshots; mutating them has no effect on the Store.
type Student struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Grade          string    `json:"grade"`
	Tier           Tier      `json:"tier"`
	Accommodations string    `json:"accommodations"`
	BehaviorPlan   string    `json:"behaviorPlan"`
	IEPNotes       string    `json:"iepNotes"`
	IsELL          bool      `json:"isELL"`
	Scores         []float64 `json:"scores"`
	MClassBOY      *float64  `json:"mclassBOY,omitempty"`
	MapBOY         *float64  `json:"mapBOY,omitempty"`
}

// HasIEP reports whether the student has an active IEP.
func (s Student) HasIEP() bool { return s.IEPNotes != "" }

// HasBehaviorPlan reports whether the student has a behavior plan on file.
func (s Student) HasBehaviorPlan() bool { return s.BehaviorPlan != "" }

// HasAccommodations reports whether any accommodations are listed.
func (s Student) HasAccommodations() bool { return s.Accommodations != "" }

// clone returns a deep copy so callers never alias Store-owned slices.
func (s Student) clone() Student {
	out := s
	out.Scores = append(make([]float64, 0, len(s.Scores)), s.Scores...)
	if s.MClassBOY != nil {
		v := *s.MClassBOY
		out.MClassBOY = &v
	}
	if s.MapBOY != nil {
		v := *s.MapBOY
		out.MapBOY = &v
	}
	return out
}

// Draft holds the caller-supplied fields for a new student. Only Name is
// required; everything else falls back to defaults.
type Draft struct {
	Name           string
	Grade          string
	Tier           Tier
	Accommodations string
	BehaviorPlan   string
	IEPNotes       string
	HasIEP         bool
	IsELL          bool
	MClassBOY      *float64
	MapBOY         *float64
}

// Skeleton returns a draft carrying only a name, as produced by bulk import.
func Skeleton(name string) Draft {
	return Draft{Name: name}
}

// ProfilePatch is a partial update of a student's support notes.
// Nil fields are left unchanged.
type ProfilePatch struct {
	Accommodations *string
	BehaviorPlan   *string
	IEPNotes       *string
	IsELL          *bool
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.Accommodations == nil && p.BehaviorPlan == nil && p.IEPNotes == nil && p.IsELL == nil
}

func (p ProfilePatch) apply(s *Student) {
	if p.Accommodations != nil {
		s.Accommodations = *p.Accommodations
	}
	if p.BehaviorPlan != nil {
		s.BehaviorPlan = *p.BehaviorPlan
	}
	if p.IEPNotes != nil {
		s.IEPNotes = *p.IEPNotes
	}
	if p.IsELL != nil {
		s.IsELL = *p.IsELL
	}
}

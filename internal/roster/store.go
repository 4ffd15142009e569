package roster

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/abhisek/eduelevate/internal/importer"
	"github.com/google/uuid"
)

// Store is the in-memory roster. It is owned by a single goroutine and does
// no locking; every read hands out deep copies.
type Store struct {
	students []Student
	issued   map[string]struct{}
	newID    func() string
}

type options struct {
	newID func() string
	seed  []Student
}

// Option configures a Store.
type Option func(*options)

// WithIDGenerator replaces the UUID generator. Generated ids that collide
// with an id already issued by the Store are discarded.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithSeed starts the Store with the given students. Records with an empty
// name, a duplicate id or an invalid tier are skipped.
func WithSeed(students []Student) Option {
	return func(o *options) {
		o.seed = append(o.seed, students...)
	}
}

// NewStore returns an empty Store unless seeded through options.
func NewStore(opts ...Option) *Store {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		issued: make(map[string]struct{}),
		newID:  o.newID,
	}
	for _, st := range o.seed {
		if strings.TrimSpace(st.Name) == "" || !st.Tier.Valid() {
			continue
		}
		if st.ID == "" {
			st.ID = s.nextID()
		}
		if _, dup := s.issued[st.ID]; dup {
			continue
		}
		s.issued[st.ID] = struct{}{}
		s.students = append(s.students, st.clone())
	}
	return s
}

func (s *Store) nextID() string {
	for range 8 {
		id := s.newID()
		if _, taken := s.issued[id]; id != "" && !taken {
			return id
		}
	}
	for {
		id := uuid.NewString()
		if _, taken := s.issued[id]; !taken {
			return id
		}
	}
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.students, func(st Student) bool { return st.ID == id })
}

// AddStudent appends a new student built from d. A draft whose name is empty
// after trimming is ignored and reported with ok == false.
func (s *Store) AddStudent(d Draft) (Student, bool) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Student{}, false
	}
	st := Student{
		ID:             s.nextID(),
		Name:           name,
		Grade:          strings.TrimSpace(d.Grade),
		Tier:           d.Tier,
		Accommodations: d.Accommodations,
		BehaviorPlan:   d.BehaviorPlan,
		IEPNotes:       d.IEPNotes,
		IsELL:          d.IsELL,
		Scores:         []float64{},
	}
	if st.Grade == "" {
		st.Grade = DefaultGrade
	}
	if !st.Tier.Valid() {
		st.Tier = Tier1
	}
	if d.HasIEP && st.IEPNotes == "" {
		st.IEPNotes = IEPActiveNote
	}
	if d.MClassBOY != nil && isFinite(*d.MClassBOY) {
		v := *d.MClassBOY
		st.MClassBOY = &v
	}
	if d.MapBOY != nil && isFinite(*d.MapBOY) {
		v := *d.MapBOY
		st.MapBOY = &v
	}

	s.issued[st.ID] = struct{}{}
	s.students = append(s.students, st)
	return st.clone(), true
}

// UpdateProfile applies the support-note fields of p to the student.
// Name, grade, tier and scores are never touched.
func (s *Store) UpdateProfile(id string, p ProfilePatch) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	p.apply(&s.students[i])
	return true
}

// SetTier assigns tier t. Unknown ids and invalid tiers are ignored.
func (s *Store) SetTier(id string, t Tier) bool {
	if !t.Valid() {
		return false
	}
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.students[i].Tier = t
	return true
}

// AppendScore parses raw as a decimal number and appends it to the student's
// history. Non-numeric input leaves the history unchanged.
func (s *Store) AppendScore(id string, raw string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	return s.AppendScoreValue(id, v)
}

// AppendScoreValue appends v to the student's history if it is finite.
func (s *Store) AppendScoreValue(id string, v float64) bool {
	if !isFinite(v) {
		return false
	}
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.students[i].Scores = append(s.students[i].Scores, v)
	return true
}

// RemoveStudent deletes the student. Removing an unknown id is a no-op.
func (s *Store) RemoveStudent(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.students = slices.Delete(s.students, i, i+1)
	return true
}

// BulkAdd adds one skeleton student per usable candidate, in input order.
// It returns the records that were created.
func (s *Store) BulkAdd(candidates []string) []Student {
	names := importer.CleanNames(candidates)
	added := make([]Student, 0, len(names))
	for _, name := range names {
		if st, ok := s.AddStudent(Skeleton(name)); ok {
			added = append(added, st)
		}
	}
	return added
}

// ImportText parses delimited roster text and bulk-adds the names found.
func (s *Store) ImportText(text string) []Student {
	return s.BulkAdd(importer.ParseNames(text))
}

// Students returns snapshots of every student in insertion order.
func (s *Store) Students() []Student {
	out := make([]Student, len(s.students))
	for i, st := range s.students {
		out[i] = st.clone()
	}
	return out
}

// Get returns a snapshot of the student with the given id.
func (s *Store) Get(id string) (Student, bool) {
	i := s.index(id)
	if i < 0 {
		return Student{}, false
	}
	return s.students[i].clone(), true
}

// Len returns the number of students on the roster.
func (s *Store) Len() int {
	return len(s.students)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

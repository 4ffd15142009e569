package roster

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func TestAddStudent_Defaults(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))

	st, ok := s.AddStudent(Draft{Name: "  Ava Lopez  "})
	require.True(t, ok)
	assert.Equal(t, "s1", st.ID)
	assert.Equal(t, "Ava Lopez", st.Name)
	assert.Equal(t, DefaultGrade, st.Grade)
	assert.Equal(t, Tier1, st.Tier)
	assert.Empty(t, st.Accommodations)
	assert.Empty(t, st.BehaviorPlan)
	assert.Empty(t, st.IEPNotes)
	assert.False(t, st.IsELL)
	assert.NotNil(t, st.Scores)
	assert.Empty(t, st.Scores)
	assert.Equal(t, 1, s.Len())
}

func TestSnapshots_EmptyScoresNotNil(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	st, ok := s.AddStudent(Draft{Name: "Ava"})
	require.True(t, ok)
	assert.NotNil(t, st.Scores)

	got, ok := s.Get(st.ID)
	require.True(t, ok)
	assert.NotNil(t, got.Scores)

	added := s.BulkAdd([]string{"Ben"})
	require.Len(t, added, 1)
	assert.NotNil(t, added[0].Scores)

	for _, snap := range s.Students() {
		assert.NotNil(t, snap.Scores, snap.Name)
	}

	data, err := json.Marshal(s.Students()[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scores":[]`)
	assert.NotContains(t, string(data), `"scores":null`)
}

func TestAddStudent_EmptyNameIgnored(t *testing.T) {
	s := NewStore()
	for _, name := range []string{"", "   ", "\t\n"} {
		_, ok := s.AddStudent(Draft{Name: name})
		assert.False(t, ok, "name %q", name)
	}
	assert.Equal(t, 0, s.Len())
}

func TestAddStudent_InvalidTierCoerced(t *testing.T) {
	s := NewStore()
	st, ok := s.AddStudent(Draft{Name: "Ben", Tier: 7})
	require.True(t, ok)
	assert.Equal(t, Tier1, st.Tier)
}

func TestAddStudent_IEPFlag(t *testing.T) {
	s := NewStore()

	st, _ := s.AddStudent(Draft{Name: "Cam", HasIEP: true})
	assert.Equal(t, IEPActiveNote, st.IEPNotes)
	assert.True(t, st.HasIEP())

	st, _ = s.AddStudent(Draft{Name: "Dee", HasIEP: true, IEPNotes: "Speech"})
	assert.Equal(t, "Speech", st.IEPNotes)
}

func TestAddStudent_UniqueIDs(t *testing.T) {
	s := NewStore()
	seen := map[string]bool{}
	for i := range 200 {
		before := s.Len()
		st, ok := s.AddStudent(Draft{Name: fmt.Sprintf("Student %d", i)})
		require.True(t, ok)
		assert.Equal(t, before+1, s.Len())
		assert.False(t, seen[st.ID], "duplicate id %s", st.ID)
		seen[st.ID] = true
	}
}

func TestAddStudent_CollidingGeneratorStillUnique(t *testing.T) {
	s := NewStore(WithIDGenerator(func() string { return "same" }))
	a, _ := s.AddStudent(Draft{Name: "A"})
	b, _ := s.AddStudent(Draft{Name: "B"})
	assert.Equal(t, "same", a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, b.ID)
}

func TestAppendScore(t *testing.T) {
	s := NewStore()
	st, _ := s.AddStudent(Draft{Name: "Ava"})

	tests := []struct {
		raw  string
		ok   bool
		want float64
	}{
		{"85", true, 85},
		{" 72.5 ", true, 72.5},
		{"0", true, 0},
		{"-3", true, -3},
		{"1e2", true, 100},
		{"", false, 0},
		{"abc", false, 0},
		{"NaN", false, 0},
		{"Inf", false, 0},
		{"-Inf", false, 0},
		{"85%", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			before, _ := s.Get(st.ID)
			ok := s.AppendScore(st.ID, tt.raw)
			after, _ := s.Get(st.ID)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Len(t, after.Scores, len(before.Scores)+1)
				assert.Equal(t, tt.want, after.Scores[len(after.Scores)-1])
			} else {
				assert.Equal(t, before.Scores, after.Scores)
			}
		})
	}
}

func TestAppendScore_UnknownID(t *testing.T) {
	s := NewStore(WithSeed(SeedStudents()))
	before := s.Students()
	assert.False(t, s.AppendScore("missing", "90"))
	assert.Equal(t, before, s.Students())
}

func TestSetTier(t *testing.T) {
	s := NewStore()
	st, _ := s.AddStudent(Draft{Name: "Ava"})

	assert.True(t, s.SetTier(st.ID, Tier3))
	got, _ := s.Get(st.ID)
	assert.Equal(t, Tier3, got.Tier)

	assert.False(t, s.SetTier(st.ID, 0))
	assert.False(t, s.SetTier(st.ID, 4))
	got, _ = s.Get(st.ID)
	assert.Equal(t, Tier3, got.Tier)
}

func TestSetTier_UnknownIDLeavesStoreUnchanged(t *testing.T) {
	s := NewStore(WithSeed(SeedStudents()))
	before := s.Students()

	assert.False(t, s.SetTier("nope", Tier2))
	assert.Equal(t, len(before), s.Len())
	assert.Equal(t, before, s.Students())
}

func TestUpdateProfile(t *testing.T) {
	s := NewStore()
	st, _ := s.AddStudent(Draft{Name: "Ava", Grade: "2nd", Tier: Tier2})
	s.AppendScore(st.ID, "77")

	acc := "Preferential seating"
	ell := true
	require.True(t, s.UpdateProfile(st.ID, ProfilePatch{Accommodations: &acc, IsELL: &ell}))

	got, _ := s.Get(st.ID)
	assert.Equal(t, acc, got.Accommodations)
	assert.True(t, got.IsELL)
	assert.Empty(t, got.BehaviorPlan)
	assert.Equal(t, "Ava", got.Name)
	assert.Equal(t, "2nd", got.Grade)
	assert.Equal(t, Tier2, got.Tier)
	assert.Equal(t, []float64{77}, got.Scores)

	assert.False(t, s.UpdateProfile("missing", ProfilePatch{Accommodations: &acc}))
}

func TestRemoveStudent_Idempotent(t *testing.T) {
	s := NewStore(WithSeed(SeedStudents()))
	assert.True(t, s.RemoveStudent("1"))
	assert.False(t, s.RemoveStudent("1"))
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("1")
	assert.False(t, ok)
}

func TestBulkAdd(t *testing.T) {
	s := NewStore()
	added := s.BulkAdd([]string{"Name", "  ", "Ava", "Ben,1"})

	require.Len(t, added, 2)
	assert.Equal(t, "Ava", added[0].Name)
	assert.Equal(t, "Ben", added[1].Name)
	for _, st := range added {
		assert.Equal(t, DefaultGrade, st.Grade)
		assert.Equal(t, Tier1, st.Tier)
		assert.Empty(t, st.Scores)
	}
	assert.Equal(t, 2, s.Len())
}

func TestImportThenRemoveRoundTrip(t *testing.T) {
	s := NewStore(WithSeed(SeedStudents()))
	before := s.Students()

	added := s.ImportText("Name,Grade\nAva,K\n\nBen\nAva\n")
	require.Len(t, added, 3)
	for _, st := range added {
		s.RemoveStudent(st.ID)
	}

	assert.Equal(t, before, s.Students())
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := NewStore(WithSeed(SeedStudents()))

	got, _ := s.Get("1")
	got.Scores[0] = 0
	got.Name = "changed"
	*got.MClassBOY = 0

	again, _ := s.Get("1")
	assert.Equal(t, 85.0, again.Scores[0])
	assert.Equal(t, "Liam Garcia", again.Name)
	assert.Equal(t, 82.0, *again.MClassBOY)

	list := s.Students()
	list[1].Scores = append(list[1].Scores, 100)
	fresh, _ := s.Get("2")
	assert.Len(t, fresh.Scores, 5)
}

func TestWithSeed_SkipsInvalid(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()), WithSeed([]Student{
		{ID: "a", Name: "Ava", Tier: Tier1},
		{ID: "a", Name: "Dup", Tier: Tier1},
		{ID: "b", Name: "  ", Tier: Tier1},
		{ID: "c", Name: "Bad tier", Tier: 9},
		{Name: "No id", Tier: Tier2},
	}))

	list := s.Students()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "s1", list[1].ID)

	st, _ := s.AddStudent(Draft{Name: "Next"})
	assert.Equal(t, "s2", st.ID)
}

func TestTier(t *testing.T) {
	assert.Equal(t, "Tier 2", Tier2.String())
	assert.Equal(t, Tier2, Tier1.Next())
	assert.Equal(t, Tier1, Tier3.Next())

	for in, want := range map[string]Tier{"1": Tier1, "tier 2": Tier2, "Tier 3": Tier3, " 3 ": Tier3} {
		got, err := ParseTier(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "0", "4", "two"} {
		_, err := ParseTier(in)
		assert.Error(t, err, in)
	}
}

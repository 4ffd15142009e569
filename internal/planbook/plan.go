// Package planbook holds the lesson plans a teacher works from.
package planbook

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Curriculum names the source program of a lesson.
type Curriculum string

const (
	Amplify    Curriculum = "Amplify"
	Bluebonnet Curriculum = "Bluebonnet"
	Other      Curriculum = "Other"
)

// ParseCurriculum matches case-insensitively; unknown names map to Other.
func ParseCurriculum(s string) Curriculum {
	for _, c := range []Curriculum{Amplify, Bluebonnet} {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c
		}
	}
	return Other
}

// Status tracks how far a plan has been through coaching.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusAnalyzed  Status = "analyzed"
	StatusRewritten Status = "rewritten"
)

// LessonPlan is a single lesson. StructuredRewrite holds the encoded
// distinguished rewrite once one has been produced.
type LessonPlan struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Curriculum        Curriculum      `json:"curriculum"`
	Content           string          `json:"content"`
	Status            Status          `json:"status"`
	StructuredRewrite json.RawMessage `json:"structuredRewrite,omitempty"`
}

func (p LessonPlan) clone() LessonPlan {
	if p.StructuredRewrite != nil {
		p.StructuredRewrite = slices.Clone(p.StructuredRewrite)
	}
	return p
}

// Catalog is an ordered, id-keyed list of lesson plans. Like the roster it
// is owned by one goroutine.
type Catalog struct {
	plans []LessonPlan
}

// NewCatalog builds a catalog from plans. Plans without an id or title, and
// repeated ids, are dropped.
func NewCatalog(plans ...LessonPlan) *Catalog {
	c := &Catalog{}
	for _, p := range plans {
		_ = c.Add(p)
	}
	return c
}

// Add appends a plan. An empty status defaults to draft.
func (c *Catalog) Add(p LessonPlan) error {
	p.ID = strings.TrimSpace(p.ID)
	p.Title = strings.TrimSpace(p.Title)
	if p.ID == "" || p.Title == "" {
		return fmt.Errorf("lesson plan needs an id and a title")
	}
	if _, ok := c.Find(p.ID); ok {
		return fmt.Errorf("lesson plan %q already exists", p.ID)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Curriculum == "" {
		p.Curriculum = Other
	}
	c.plans = append(c.plans, p.clone())
	return nil
}

// Find returns a copy of the plan with the given id.
func (c *Catalog) Find(id string) (LessonPlan, bool) {
	i := slices.IndexFunc(c.plans, func(p LessonPlan) bool { return p.ID == id })
	if i < 0 {
		return LessonPlan{}, false
	}
	return c.plans[i].clone(), true
}

// All returns copies of every plan in insertion order.
func (c *Catalog) All() []LessonPlan {
	out := make([]LessonPlan, len(c.plans))
	for i, p := range c.plans {
		out[i] = p.clone()
	}
	return out
}

// Len returns the number of plans.
func (c *Catalog) Len() int { return len(c.plans) }

// MarkAnalyzed moves a draft plan to analyzed. Rewritten plans stay rewritten.
func (c *Catalog) MarkAnalyzed(id string) bool {
	i := slices.IndexFunc(c.plans, func(p LessonPlan) bool { return p.ID == id })
	if i < 0 {
		return false
	}
	if c.plans[i].Status == StatusDraft {
		c.plans[i].Status = StatusAnalyzed
	}
	return true
}

// AttachRewrite stores an encoded rewrite and marks the plan rewritten.
func (c *Catalog) AttachRewrite(id string, rewrite json.RawMessage) bool {
	i := slices.IndexFunc(c.plans, func(p LessonPlan) bool { return p.ID == id })
	if i < 0 || len(rewrite) == 0 {
		return false
	}
	c.plans[i].StructuredRewrite = slices.Clone(rewrite)
	c.plans[i].Status = StatusRewritten
	return true
}

// Seed returns the starter plan shown on first launch.
func Seed() []LessonPlan {
	return []LessonPlan{{
		ID:         "l1",
		Title:      "ELA - Phonics Intro",
		Curriculum: Amplify,
		Content:    "CVC blended sounds focus.",
		Status:     StatusAnalyzed,
	}}
}

package coaching

import (
	"fmt"
	"strings"
)

// Dimension is one scored dimension of the TTESS rubric.
type Dimension struct {
	ID            string // e.g. "2.3"
	Name          string
	Distinguished string // descriptor of the top performance level
}

// Domain groups TTESS dimensions.
type Domain struct {
	Number     int
	Title      string
	Dimensions []Dimension
}

// TTESS is the Texas Teacher Evaluation and Support System observation
// rubric, distinguished level only.
var TTESS = []Domain{
	{
		Number: 1,
		Title:  "Planning",
		Dimensions: []Dimension{
			{"1.1", "Standards and Alignment", "All rigorous and measurable goals aligned to state standards. Activities and assessments logically sequenced, relevant to prior understanding, and integrate concepts from other disciplines. Objectives aligned to the lesson's goal with extensions."},
			{"1.2", "Data and Assessment", "Formal and informal assessments to monitor all students. Students engage in self-assessment and build awareness of strengths/weaknesses. Substantive, timely feedback provided. Analysis used to adjust instructional strategies."},
			{"1.3", "Knowledge of Students", "Lessons connect to students' prior knowledge, experiences, interests and future expectations. Guidance for students to apply strengths. Opportunities for students to utilize individual learning patterns and habits."},
			{"1.4", "Activities", "Students generate questions that lead to further inquiry. Complex higher-order thinking and real-world application. Groups based on needs allows students to take ownership. Student self-reflection and evaluation."},
		},
	},
	{
		Number: 2,
		Title:  "Instruction",
		Dimensions: []Dimension{
			{"2.1", "Achieving Expectations", "Students establish high academic and social-emotional expectations for themselves. Persists until all students demonstrate mastery. Students self-monitor and self-correct. Systematic goal setting."},
			{"2.2", "Content Knowledge and Expertise", "Displays extensive content knowledge. Integrates learning objectives across disciplines. Consistently anticipates student misunderstandings and proactively develops teaching techniques to mitigate concerns."},
			{"2.3", "Communication", "Safe and effective communication with peers. Addresses student misunderstandings at strategic points. Explanations are clear and use verbal/written communication. Balances wait time and questioning. Skilfully provokes inquiry."},
			{"2.4", "Differentiation", "Adapts lessons with a wide variety of instructional strategies to address individual needs. Consistently monitors quality of student participation. Prevents student confusion or disengagement by addressing needs."},
			{"2.5", "Monitor and Adjust", "Systematically gathers input from students in order to monitor and adjust instruction. Adjusts pacing and activities to respond to differences in needs. Uses discreet and explicit checks."},
		},
	},
	{
		Number: 3,
		Title:  "Learning Environment",
		Dimensions: []Dimension{
			{"3.1", "Environment, Routines and Procedures", "Establishes and uses effective routines where students take primary leadership and responsibility for managing groups, supplies, and equipment. Classroom is safe and thoughtfully designed."},
			{"3.2", "Managing Student Behavior", "Consistently monitors behavior subtly and reinforces positive behaviors. Intercepts misbehavior fluidly. Students create, adopt, and maintain behavior standards."},
			{"3.3", "Classroom Culture", "Engages all students with relevant, meaningful learning, sometimes adjusting lessons based on student interests and abilities. Positive rapport amongst students. Students collaborate positively."},
		},
	},
}

// TTESSScoreMin and TTESSScoreMax bound a dimension score
// (1 Improvement Needed through 5 Distinguished).
const (
	TTESSScoreMin = 1
	TTESSScoreMax = 5
)

// FindDimension looks up a TTESS dimension by id.
func FindDimension(id string) (Dimension, bool) {
	for _, d := range TTESS {
		for _, dim := range d.Dimensions {
			if dim.ID == id {
				return dim, true
			}
		}
	}
	return Dimension{}, false
}

// Fundamental5 are the five framing practices every plan is checked against.
var Fundamental5 = []string{
	"Frame the Lesson (We Will / I Will)",
	"Work in the Power Zone",
	"Frequent Small Group Purposeful Talk",
	"Recognize & Reinforce",
	"Write Critically",
}

// PAXKernels are the PAX Good Behavior Game kernels suggested for classroom
// culture.
var PAXKernels = []string{
	"Vision",
	"Quiet Signal",
	"PAX Minutes",
	"Harm-o-meter",
	"Tootles",
	"Beat the Timer",
	"Mystery Walker",
	"Granny's Wacky Prizes",
}

// GrowthLadder lists the coaching focus rungs from first to last. Feedback
// names the lowest rung the teacher has not yet secured.
var GrowthLadder = []string{
	"Clarity",
	"CFUs",
	"Student Talk",
	"Misconceptions",
	"Differentiation",
}

// rubricText renders the TTESS rubric for inclusion in a system prompt.
func rubricText() string {
	var b strings.Builder
	b.WriteString("TTESS rubric (distinguished descriptors):\n")
	for _, d := range TTESS {
		fmt.Fprintf(&b, "Domain %d: %s\n", d.Number, d.Title)
		for _, dim := range d.Dimensions {
			fmt.Fprintf(&b, "- %s %s: %s\n", dim.ID, dim.Name, dim.Distinguished)
		}
	}
	fmt.Fprintf(&b, "Score each dimension you have evidence for from %d to %d and cite the dimension id.\n", TTESSScoreMin, TTESSScoreMax)
	return b.String()
}

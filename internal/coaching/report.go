package coaching

// Report is the result of a coaching request. The set of variants is
// closed: *LessonCritique, *LessonPlanRewrite, *ObservationAnalysis,
// *GrowthTrendReport, *ExitTicketAnalysis, *ReflectionReport and Failed.
type Report interface {
	ReportKind() Kind
	isReport()
}

// Failed is returned for any request that could not produce a report. The
// cause is logged, never carried.
type Failed struct {
	Kind Kind
}

func (f Failed) ReportKind() Kind { return f.Kind }
func (Failed) isReport()          {}

// TTESSScore is one rubric dimension scored in alignment mode.
type TTESSScore struct {
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Evidence  string  `json:"evidence"`
}

// BridgePlan is the Proficient+1 next step: one skill, two moves.
type BridgePlan struct {
	FocusSkill    string   `json:"focusSkill"`
	TwoMoves      []string `json:"twoMoves"`
	EasierVersion string   `json:"easierVersion"`
	SuccessSignal string   `json:"successSignal"`
}

// Misconception is an anticipated student error and how to address it.
type Misconception struct {
	Issue      string `json:"issue"`
	Cause      string `json:"cause"`
	Correction string `json:"correction"`
}

// LessonPhase is one step of the Do Now, I Do, We Do, You Do, Closure flow.
type LessonPhase struct {
	Name               string `json:"name"`
	TeacherActions     string `json:"teacherActions"`
	StudentActions     string `json:"studentActions"`
	EngagementStrategy string `json:"engagementStrategy,omitempty"`
	QuickCheck         string `json:"quickCheck,omitempty"`
}

// LessonCritique is the audit of a draft lesson.
type LessonCritique struct {
	Rating         string       `json:"rating"`
	Strengths      []string     `json:"strengths"`
	Suggestions    []string     `json:"suggestions"`
	LadderRung     string       `json:"ladderRung,omitempty"`
	TTESSAlignment []TTESSScore `json:"ttessAlignment,omitempty"`
}

func (*LessonCritique) ReportKind() Kind { return KindLessonCritique }
func (*LessonCritique) isReport()        {}

// LessonOverview heads a rewritten plan.
type LessonOverview struct {
	Grade             string `json:"grade"`
	Subject           string `json:"subject"`
	Standards         string `json:"standards"`
	LearningObjective string `json:"learningObjective"`
	SuccessCriteria   string `json:"successCriteria"`
	Vocabulary        string `json:"vocabulary"`
	TalkBalanceTarget string `json:"talkBalanceTarget"`
}

// Differentiation holds the three readiness levels.
type Differentiation struct {
	Below string `json:"below"`
	On    string `json:"on"`
	Above string `json:"above"`
}

// ClassroomCulture names the PAX kernel and attention signal for the lesson.
type ClassroomCulture struct {
	PAXKernel       string `json:"paxKernel"`
	AttentionSignal string `json:"attentionSignal"`
}

// ExitTicketDesign describes the closing check.
type ExitTicketDesign struct {
	Skill       string `json:"skill"`
	MasteryRule string `json:"masteryRule"`
}

// LessonPlanRewrite is a distinguished model lesson plus its bridge plan.
type LessonPlanRewrite struct {
	Overview         LessonOverview   `json:"overview"`
	WeWill           string           `json:"weWill"`
	IWill            string           `json:"iWill"`
	Misconceptions   []Misconception  `json:"misconceptions"`
	Phases           []LessonPhase    `json:"phases"`
	Differentiation  Differentiation  `json:"differentiation"`
	ClassroomCulture ClassroomCulture `json:"classroomCulture"`
	BridgePlan       BridgePlan       `json:"bridgePlan"`
	ExitTicketDesign ExitTicketDesign `json:"exitTicketDesign"`
}

func (*LessonPlanRewrite) ReportKind() Kind { return KindLessonRewrite }
func (*LessonPlanRewrite) isReport()        {}

// AlignmentSummary is the headline of an observation.
type AlignmentSummary struct {
	Level    string `json:"level"`
	Strength string `json:"strength"`
	Growth   string `json:"growth"`
}

// TalkEvidence is a quoted utterance from the recording.
type TalkEvidence struct {
	Quote     string `json:"quote"`
	Type      string `json:"type"` // "teacher" or "student"
	Timestamp string `json:"timestamp,omitempty"`
}

// TalkBalance is the teacher versus student talk split.
type TalkBalance struct {
	TeacherPercentage float64        `json:"teacherPercentage"`
	StudentPercentage float64        `json:"studentPercentage"`
	Evidence          []TalkEvidence `json:"evidence"`
	MissedOpportunity string         `json:"missedOpportunity"`
	ActionStep        string         `json:"actionStep"`
}

// MisconceptionReview is how one misconception was handled live.
type MisconceptionReview struct {
	Appeared   string `json:"appeared"`
	Response   string `json:"response"`
	Resolved   bool   `json:"resolved"`
	Suggestion string `json:"suggestion"`
}

// FlowStep compares one lesson phase to the plan.
type FlowStep struct {
	Phase          string `json:"phase"`
	WhatMatched    string `json:"whatMatched"`
	WhatWasMissing string `json:"whatWasMissing"`
	Adjustment     string `json:"adjustment"`
}

// NextAdjustments is the keep, adjust and add list.
type NextAdjustments struct {
	Keep   []string `json:"keep"`
	Adjust []string `json:"adjust"`
	Add    []string `json:"add"`
}

// ObservationAnalysis reviews a recorded lesson against its plan.
type ObservationAnalysis struct {
	AlignmentSummary    AlignmentSummary      `json:"alignmentSummary"`
	TalkBalance         TalkBalance           `json:"talkBalance"`
	MisconceptionReview []MisconceptionReview `json:"misconceptionReview"`
	FlowAnalysis        []FlowStep            `json:"flowAnalysis"`
	BridgePlan          BridgePlan            `json:"bridgePlan"`
	TTESSAlignment      []TTESSScore          `json:"ttessAlignment,omitempty"`
	NextAdjustments     NextAdjustments       `json:"nextAdjustments"`
}

func (*ObservationAnalysis) ReportKind() Kind { return KindObservation }
func (*ObservationAnalysis) isReport()        {}

// MetricSnapshot is one tracked metric with its direction.
type MetricSnapshot struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Trend  string `json:"trend"` // "up", "down" or "stable"
}

// GrowthTrendReport summarizes lesson and student history.
type GrowthTrendReport struct {
	OverallTrend    string           `json:"overallTrend"`
	MetricSnapshots []MetricSnapshot `json:"metricSnapshots"`
	GrowthInsights  []string         `json:"growthInsights"`
	LadderProgress  string           `json:"ladderProgress"`
}

func (*GrowthTrendReport) ReportKind() Kind { return KindGrowthTrend }
func (*GrowthTrendReport) isReport()        {}

// TicketSnapshot describes the exit ticket set.
type TicketSnapshot struct {
	Skill           string  `json:"skill"`
	TotalStudents   float64 `json:"totalStudents"`
	MasteryCriteria string  `json:"masteryCriteria"`
}

// BandGroup is one performance band with its students.
type BandGroup struct {
	Count float64  `json:"count"`
	Names []string `json:"names"`
}

// PerformanceBands groups students by exit ticket result.
type PerformanceBands struct {
	GotIt  BandGroup `json:"gotIt"`
	Almost BandGroup `json:"almost"`
	NotYet BandGroup `json:"notYet"`
}

// MisconceptionMapping names the dominant errors in the set.
type MisconceptionMapping struct {
	Primary         string `json:"primary"`
	Secondary       string `json:"secondary"`
	ReteachStrategy string `json:"reteachStrategy"`
}

// Reteach is the reteach block of the next day plan.
type Reteach struct {
	Strategy string `json:"strategy"`
	Example  string `json:"example"`
}

// Reinforce is the reinforce block of the next day plan.
type Reinforce struct {
	Strategy string `json:"strategy"`
}

// Extension is the stretch block of the next day plan.
type Extension struct {
	Task string `json:"task"`
}

// NextDayPlan is a short reteach cycle.
type NextDayPlan struct {
	Reteach   Reteach   `json:"reteach"`
	Reinforce Reinforce `json:"reinforce"`
	Extension Extension `json:"extension"`
}

// TicketResult is one student's scored exit ticket.
type TicketResult struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	SuggestedTier float64 `json:"suggestedTier"`
	Observation   string  `json:"observation"`
}

// ExitTicketAnalysis scores photographed exit tickets.
type ExitTicketAnalysis struct {
	Snapshot             TicketSnapshot       `json:"snapshot"`
	PerformanceBands     PerformanceBands     `json:"performanceBands"`
	MisconceptionMapping MisconceptionMapping `json:"misconceptionMapping"`
	BridgePlan           BridgePlan           `json:"bridgePlan"`
	NextDayPlan          NextDayPlan          `json:"nextDayPlan"`
	StudentData          []TicketResult       `json:"studentData"`
}

func (*ExitTicketAnalysis) ReportKind() Kind { return KindExitTickets }
func (*ExitTicketAnalysis) isReport()        {}

// LessonInfo heads a reflection report.
type LessonInfo struct {
	Teacher string `json:"teacher"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// ImplementationNote is one phase's strengths and growth areas.
type ImplementationNote struct {
	Phase       string `json:"phase"`
	Strengths   string `json:"strengths"`
	GrowthAreas string `json:"growthAreas"`
}

// StudentResults is the mastery summary of a reflection.
type StudentResults struct {
	MasteryRate string `json:"masteryRate"`
	Bands       string `json:"bands"`
}

// ReflectionReport synthesizes an observation and its exit tickets.
type ReflectionReport struct {
	LessonInfo             LessonInfo           `json:"lessonInfo"`
	ImplementationSnapshot []ImplementationNote `json:"implementationSnapshot"`
	StudentResults         StudentResults       `json:"studentResults"`
	BridgePlanHistory      []string             `json:"bridgePlanHistory"`
	GrowthMindsetStatement string               `json:"growthMindsetStatement"`
	ActionSteps            []string             `json:"actionSteps"`
}

func (*ReflectionReport) ReportKind() Kind { return KindReflection }
func (*ReflectionReport) isReport()        {}

package coaching

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduelevate/internal/llm"
	"github.com/abhisek/eduelevate/internal/planbook"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const critiqueJSON = `{
	"rating": "Developing",
	"strengths": ["Clear phonics routine"],
	"suggestions": ["Add a WE WILL statement", "Plan two misconceptions"],
	"ladderRung": "Clarity"
}`

const critiqueAlignedJSON = `{
	"rating": "Proficient",
	"strengths": ["Sequenced activities"],
	"suggestions": ["Add checks for understanding"],
	"ttessAlignment": [{"dimension": "1.1 Standards and Alignment", "score": 3, "evidence": "Objective matches TEKS"}]
}`

const rewriteJSON = `{
	"overview": {"grade": "K", "subject": "ELA", "standards": "K.2A", "learningObjective": "Blend CVC words", "successCriteria": "Blend 4 of 5", "vocabulary": "blend", "talkBalanceTarget": "55% Teacher / 45% Student"},
	"weWill": "We will blend sounds",
	"iWill": "I will read CVC words",
	"misconceptions": [
		{"issue": "Drops final sound", "cause": "Short memory span", "correction": "Tap each sound"},
		{"issue": "Reverses b/d", "cause": "Visual confusion", "correction": "Bed mnemonic"}
	],
	"phases": [{"name": "Do Now", "teacherActions": "Model", "studentActions": "Echo"}],
	"differentiation": {"below": "Picture cues", "on": "CVC list", "above": "CCVC words"},
	"classroomCulture": {"paxKernel": "Quiet Signal", "attentionSignal": "Hand up"},
	"bridgePlan": {"focusSkill": "Clarity", "twoMoves": ["State objective", "Model once"], "easierVersion": "Objective only", "successSignal": "Students restate goal"},
	"exitTicketDesign": {"skill": "Blend CVC", "masteryRule": "4 of 5"}
}`

const growthJSON = `{
	"overallTrend": "Improving",
	"metricSnapshots": [{"metric": "Mean score", "value": "74", "trend": "up"}],
	"growthInsights": ["Tier 2 group gaining"],
	"ladderProgress": "Moving from Clarity to CFUs"
}`

func TestGateway_Success(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		body  string
		check func(t *testing.T, r Report)
	}{
		{
			name: "lesson critique",
			req:  Request{Kind: KindLessonCritique, Context: "plan"},
			body: critiqueJSON,
			check: func(t *testing.T, r Report) {
				c, ok := r.(*LessonCritique)
				require.True(t, ok, "got %T", r)
				assert.Equal(t, "Developing", c.Rating)
				assert.Len(t, c.Suggestions, 2)
				assert.Equal(t, "Clarity", c.LadderRung)
				assert.Empty(t, c.TTESSAlignment)
			},
		},
		{
			name: "lesson rewrite",
			req:  Request{Kind: KindLessonRewrite, Context: "plan"},
			body: rewriteJSON,
			check: func(t *testing.T, r Report) {
				rw, ok := r.(*LessonPlanRewrite)
				require.True(t, ok, "got %T", r)
				assert.Equal(t, "We will blend sounds", rw.WeWill)
				assert.Len(t, rw.Misconceptions, 2)
				assert.Equal(t, []string{"State objective", "Model once"}, rw.BridgePlan.TwoMoves)
				assert.Equal(t, "Quiet Signal", rw.ClassroomCulture.PAXKernel)
			},
		},
		{
			name: "growth trend",
			req:  Request{Kind: KindGrowthTrend, Context: "{}"},
			body: growthJSON,
			check: func(t *testing.T, r Report) {
				g, ok := r.(*GrowthTrendReport)
				require.True(t, ok, "got %T", r)
				assert.Equal(t, "up", g.MetricSnapshots[0].Trend)
				assert.Equal(t, KindGrowthTrend, g.ReportKind())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.body)})
			gw := NewGateway(mock, DefaultConfig(), quietLogger())

			r := gw.Submit(context.Background(), tt.req)
			tt.check(t, r)

			last, ok := mock.LastCall()
			require.True(t, ok)
			require.NotNil(t, last.Schema)
			assert.Equal(t, kinds[tt.req.Kind].maxTokens, last.MaxTokens)
			assert.Equal(t, tt.req.Context, last.Messages[0].Content)
		})
	}
}

func TestGateway_FailuresYieldFailedWithKind(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		resp llm.MockResponse
		cfg  Config
	}{
		{
			name: "provider error",
			kind: KindObservation,
			resp: llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}},
			cfg:  DefaultConfig(),
		},
		{
			name: "rate limited",
			kind: KindLessonCritique,
			resp: llm.MockResponse{Err: &llm.ErrRateLimit{}},
			cfg:  DefaultConfig(),
		},
		{
			name: "schema violation",
			kind: KindLessonCritique,
			resp: llm.MockResponse{Content: json.RawMessage(`{"rating": 5}`)},
			cfg:  DefaultConfig(),
		},
		{
			name: "not json",
			kind: KindGrowthTrend,
			resp: llm.MockResponse{Content: json.RawMessage(`sorry, I cannot`)},
			cfg:  DefaultConfig(),
		},
		{
			name: "timeout",
			kind: KindExitTickets,
			resp: llm.MockResponse{Content: json.RawMessage(`{}`), Delay: time.Minute},
			cfg:  Config{Timeout: 20 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := NewGateway(llm.NewMockProvider(tt.resp), tt.cfg, quietLogger())
			r := gw.Submit(context.Background(), Request{Kind: tt.kind})
			assert.Equal(t, Failed{Kind: tt.kind}, r)
			assert.Equal(t, tt.kind, r.ReportKind())
		})
	}
}

func TestGateway_UnknownKindAndNilProvider(t *testing.T) {
	gw := NewGateway(llm.NewMockProvider(), DefaultConfig(), quietLogger())
	assert.Equal(t, Failed{Kind: "poetry"}, gw.Submit(context.Background(), Request{Kind: "poetry"}))

	gw = NewGateway(nil, DefaultConfig(), nil)
	assert.Equal(t, Failed{Kind: KindReflection}, gw.Submit(context.Background(), Request{Kind: KindReflection}))
}

func TestGateway_CancelledContext(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(critiqueJSON), Delay: time.Minute})
	gw := NewGateway(mock, Config{}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, Failed{Kind: KindLessonCritique}, gw.Submit(ctx, Request{Kind: KindLessonCritique}))
}

func TestGateway_AlignmentMode(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(critiqueJSON)},
		llm.MockResponse{Content: json.RawMessage(critiqueAlignedJSON)},
		llm.MockResponse{Content: json.RawMessage(critiqueJSON)},
	)
	gw := NewGateway(mock, DefaultConfig(), quietLogger())
	ctx := context.Background()

	plain := gw.Submit(ctx, Request{Kind: KindLessonCritique})
	require.IsType(t, &LessonCritique{}, plain)
	plainReq, _ := mock.LastCall()
	assert.NotContains(t, plainReq.System, "TTESS")
	assert.Contains(t, plainReq.System, noAppraisalRule)
	assert.NotContains(t, plainReq.Schema.Definition["properties"], "ttessAlignment")

	aligned := gw.Submit(ctx, Request{Kind: KindLessonCritique, Flags: Flags{AlignmentMode: true}})
	require.IsType(t, &LessonCritique{}, aligned)
	assert.Len(t, aligned.(*LessonCritique).TTESSAlignment, 1)

	alignedReq, _ := mock.LastCall()
	assert.Contains(t, alignedReq.System, alignmentRule)
	assert.Contains(t, alignedReq.System, "2.3 Communication")
	assert.Contains(t, alignedReq.Schema.Definition["properties"], "ttessAlignment")
	assert.Contains(t, alignedReq.Schema.Definition["required"], "ttessAlignment")

	// An aligned schema rejects a report without rubric scores.
	missing := gw.Submit(ctx, Request{Kind: KindLessonCritique, Flags: Flags{AlignmentMode: true}})
	assert.Equal(t, Failed{Kind: KindLessonCritique}, missing)
}

func TestGateway_ForwardsAttachmentsAndPurpose(t *testing.T) {
	recorder := &purposeRecorder{inner: llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(critiqueJSON)})}
	gw := NewGateway(recorder, DefaultConfig(), quietLogger())

	att, err := EncodeAttachment("lesson.pdf", []byte("%PDF-1.4 test"), "")
	require.NoError(t, err)

	plan := planbook.Seed()[0]
	r := gw.Submit(context.Background(), LessonCritiqueRequest(plan, "", "", &att, Flags{}))
	require.IsType(t, &LessonCritique{}, r)

	assert.Equal(t, string(KindLessonCritique), recorder.purpose)
	require.Len(t, recorder.req.Messages[0].Attachments, 1)
	assert.Equal(t, "application/pdf", recorder.req.Messages[0].Attachments[0].MIMEType)
	assert.Equal(t, att.Data, recorder.req.Messages[0].Attachments[0].Data)
}

type purposeRecorder struct {
	inner   llm.Provider
	purpose string
	req     llm.Request
}

func (p *purposeRecorder) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.purpose = llm.PurposeFrom(ctx)
	p.req = req
	return p.inner.Generate(ctx, req)
}

func (p *purposeRecorder) ModelID() string { return p.inner.ModelID() }

func TestSchemas_CompileAndRequireKeys(t *testing.T) {
	for _, k := range Kinds {
		for _, align := range []bool{false, true} {
			s := kinds[k].schema(Flags{AlignmentMode: align})
			require.NotNil(t, s, k)
			assert.NotEmpty(t, s.Name)
			assert.Equal(t, "object", s.Definition["type"])
			assert.NotEmpty(t, s.Definition["required"], k)
		}
	}
}

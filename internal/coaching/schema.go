package coaching

import (
	"maps"
	"slices"

	"github.com/abhisek/eduelevate/internal/llm"
)

func str(desc string) map[string]any {
	s := map[string]any{"type": "string"}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func num(min, max float64, desc string) map[string]any {
	s := map[string]any{"type": "number", "minimum": min, "maximum": max}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func boolean() map[string]any {
	return map[string]any{"type": "boolean"}
}

func strList(desc string) map[string]any {
	return arr(str(""), desc)
}

func arr(items map[string]any, desc string) map[string]any {
	s := map[string]any{"type": "array", "items": items}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

// obj builds an object schema; every named property is required unless
// listed in optional.
func obj(props map[string]any, optional ...string) map[string]any {
	skip := make(map[string]bool, len(optional))
	for _, o := range optional {
		skip[o] = true
	}
	var required []any
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if !skip[name] {
			required = append(required, name)
		}
	}
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func bridgePlanSchema() map[string]any {
	return obj(map[string]any{
		"focusSkill":    str("The single Growth Ladder rung to work on next"),
		"twoMoves":      arr(str(""), "Exactly two concrete teacher moves"),
		"easierVersion": str("A scaffolded version of the moves"),
		"successSignal": str("What the coach will see when it works"),
	})
}

func ttessSchema() map[string]any {
	return arr(obj(map[string]any{
		"dimension": str("TTESS dimension id and name, e.g. 2.3 Communication"),
		"score":     num(TTESSScoreMin, TTESSScoreMax, ""),
		"evidence":  str(""),
	}), "TTESS rubric dimensions with evidence")
}

// withAlignment adds the ttessAlignment property to an object schema.
func withAlignment(def map[string]any) map[string]any {
	props := def["properties"].(map[string]any)
	props["ttessAlignment"] = ttessSchema()
	req, _ := def["required"].([]any)
	def["required"] = append(req, "ttessAlignment")
	return def
}

func lessonCritiqueSchema(align bool) *llm.Schema {
	def := obj(map[string]any{
		"rating":      str("Overall readiness of the plan in growth language"),
		"strengths":   strList("What the plan already does well"),
		"suggestions": strList("Specific, actionable improvements"),
		"ladderRung":  str("The most relevant Growth Ladder rung"),
	}, "ladderRung")
	if align {
		def = withAlignment(def)
	}
	return &llm.Schema{
		Name:        "lesson-critique",
		Description: "Supportive audit of a draft lesson plan",
		Definition:  def,
	}
}

func lessonRewriteSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "lesson-plan-rewrite",
		Description: "Distinguished model lesson plan with a Proficient+1 bridge plan",
		Definition: obj(map[string]any{
			"overview": obj(map[string]any{
				"grade":             str(""),
				"subject":           str(""),
				"standards":         str(""),
				"learningObjective": str(""),
				"successCriteria":   str(""),
				"vocabulary":        str(""),
				"talkBalanceTarget": str("e.g. 55% Teacher / 45% Student"),
			}),
			"weWill": str("Fundamental 5 framing, teacher focus"),
			"iWill":  str("Fundamental 5 framing, student focus"),
			"misconceptions": arr(obj(map[string]any{
				"issue":      str(""),
				"cause":      str(""),
				"correction": str(""),
			}), "At least two anticipated misconceptions"),
			"phases": arr(obj(map[string]any{
				"name":               str("Do Now, I Do, We Do, You Do or Closure"),
				"teacherActions":     str(""),
				"studentActions":     str(""),
				"engagementStrategy": str(""),
				"quickCheck":         str(""),
			}, "engagementStrategy", "quickCheck"), "Lesson flow in order"),
			"differentiation": obj(map[string]any{
				"below": str(""),
				"on":    str(""),
				"above": str(""),
			}),
			"classroomCulture": obj(map[string]any{
				"paxKernel":       str("One PAX kernel"),
				"attentionSignal": str(""),
			}),
			"bridgePlan": bridgePlanSchema(),
			"exitTicketDesign": obj(map[string]any{
				"skill":       str(""),
				"masteryRule": str(""),
			}),
		}),
	}
}

func observationSchema(align bool) *llm.Schema {
	def := obj(map[string]any{
		"alignmentSummary": obj(map[string]any{
			"level":    str(""),
			"strength": str(""),
			"growth":   str(""),
		}),
		"talkBalance": obj(map[string]any{
			"teacherPercentage": num(0, 100, ""),
			"studentPercentage": num(0, 100, ""),
			"evidence": arr(obj(map[string]any{
				"quote":     str(""),
				"type":      map[string]any{"type": "string", "enum": []any{"teacher", "student"}},
				"timestamp": str(""),
			}, "timestamp"), "Quotes supporting the split"),
			"missedOpportunity": str(""),
			"actionStep":        str(""),
		}),
		"misconceptionReview": arr(obj(map[string]any{
			"appeared":   str(""),
			"response":   str(""),
			"resolved":   boolean(),
			"suggestion": str(""),
		}), ""),
		"flowAnalysis": arr(obj(map[string]any{
			"phase":          str(""),
			"whatMatched":    str(""),
			"whatWasMissing": str(""),
			"adjustment":     str(""),
		}), "Phase by phase comparison with the plan"),
		"bridgePlan": bridgePlanSchema(),
		"nextAdjustments": obj(map[string]any{
			"keep":   strList(""),
			"adjust": strList(""),
			"add":    strList(""),
		}),
	})
	if align {
		def = withAlignment(def)
	}
	return &llm.Schema{
		Name:        "observation-analysis",
		Description: "Growth-focused review of a recorded lesson",
		Definition:  def,
	}
}

func growthTrendSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "growth-trend",
		Description: "Trend analysis over lesson and student history",
		Definition: obj(map[string]any{
			"overallTrend": str(""),
			"metricSnapshots": arr(obj(map[string]any{
				"metric": str(""),
				"value":  str(""),
				"trend":  map[string]any{"type": "string", "enum": []any{"up", "down", "stable"}},
			}), ""),
			"growthInsights": strList(""),
			"ladderProgress": str("Growth Ladder rung summary"),
		}),
	}
}

func bandGroupSchema() map[string]any {
	return obj(map[string]any{
		"count": num(0, 1000, ""),
		"names": strList(""),
	})
}

func exitTicketSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "exit-ticket-analysis",
		Description: "Scored exit tickets grouped into performance bands",
		Definition: obj(map[string]any{
			"snapshot": obj(map[string]any{
				"skill":           str(""),
				"totalStudents":   num(0, 1000, ""),
				"masteryCriteria": str(""),
			}),
			"performanceBands": obj(map[string]any{
				"gotIt":  bandGroupSchema(),
				"almost": bandGroupSchema(),
				"notYet": bandGroupSchema(),
			}),
			"misconceptionMapping": obj(map[string]any{
				"primary":         str(""),
				"secondary":       str(""),
				"reteachStrategy": str(""),
			}),
			"bridgePlan": bridgePlanSchema(),
			"nextDayPlan": obj(map[string]any{
				"reteach":   obj(map[string]any{"strategy": str(""), "example": str("")}),
				"reinforce": obj(map[string]any{"strategy": str("")}),
				"extension": obj(map[string]any{"task": str("")}),
			}),
			"studentData": arr(obj(map[string]any{
				"name":          str(""),
				"score":         num(0, 100, ""),
				"suggestedTier": num(1, 3, ""),
				"observation":   str(""),
			}), ""),
		}),
	}
}

func reflectionSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "instructional-reflection",
		Description: "Synthesis of an observation and its exit tickets",
		Definition: obj(map[string]any{
			"lessonInfo": obj(map[string]any{
				"teacher": str(""),
				"date":    str(""),
				"subject": str(""),
			}),
			"implementationSnapshot": arr(obj(map[string]any{
				"phase":       str(""),
				"strengths":   str(""),
				"growthAreas": str(""),
			}), ""),
			"studentResults": obj(map[string]any{
				"masteryRate": str(""),
				"bands":       str(""),
			}),
			"bridgePlanHistory":      strList(""),
			"growthMindsetStatement": str(""),
			"actionSteps":            strList(""),
		}),
	}
}

package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names for LLM request events.
const (
	llmEventsTable = "llm_request_events"

	colID           = "id"
	colTimestamp    = "timestamp"
	colProvider     = "provider"
	colModel        = "model"
	colPurpose      = "purpose"
	colInputTokens  = "input_tokens"
	colOutputTokens = "output_tokens"
	colLatencyMs    = "latency_ms"
	colSuccess      = "success"
	colErrorMessage = "error_message"
	colRequestBody  = "request_body"
	colResponseBody = "response_body"
)

var (
	llmEventColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: colProvider, Type: field.TypeString},
		{Name: colModel, Type: field.TypeString},
		{Name: colPurpose, Type: field.TypeString},
		{Name: colInputTokens, Type: field.TypeInt, Default: 0},
		{Name: colOutputTokens, Type: field.TypeInt, Default: 0},
		{Name: colLatencyMs, Type: field.TypeInt64, Default: 0},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Default: ""},
		{Name: colRequestBody, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colResponseBody, Type: field.TypeString, Size: 2147483647, Default: ""},
	}

	// LLMRequestEventsTable holds one row per provider call.
	LLMRequestEventsTable = newLLMRequestEventsTable()

	// Tables lists every table the store migrates.
	Tables = []*schema.Table{LLMRequestEventsTable}
)

func newLLMRequestEventsTable() *schema.Table {
	t := schema.NewTable(llmEventsTable).AddPrimary(llmEventColumns[0])
	for _, c := range llmEventColumns[1:] {
		t.AddColumn(c)
	}
	return t.
		AddIndex("llmrequestevent_timestamp", false, []string{colTimestamp}).
		AddIndex("llmrequestevent_provider", false, []string{colProvider}).
		AddIndex("llmrequestevent_purpose", false, []string{colPurpose}).
		AddIndex("llmrequestevent_success", false, []string{colSuccess})
}

package coaching

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/eduelevate/internal/llm"
)

// Kind identifies a coaching report type. It doubles as the purpose label
// recorded for the model call.
type Kind string

const (
	KindLessonCritique Kind = "lesson_critique"
	KindLessonRewrite  Kind = "lesson_rewrite"
	KindObservation    Kind = "observation"
	KindGrowthTrend    Kind = "growth_trend"
	KindExitTickets    Kind = "exit_tickets"
	KindReflection     Kind = "reflection"
)

// Kinds lists every report kind in menu order.
var Kinds = []Kind{
	KindLessonCritique,
	KindLessonRewrite,
	KindObservation,
	KindGrowthTrend,
	KindExitTickets,
	KindReflection,
}

// Label returns a human-readable report title.
func (k Kind) Label() string {
	switch k {
	case KindLessonCritique:
		return "Lesson Critique"
	case KindLessonRewrite:
		return "Distinguished Lesson Plan"
	case KindObservation:
		return "Observation Analysis"
	case KindGrowthTrend:
		return "Growth Trend Report"
	case KindExitTickets:
		return "Exit Ticket Analysis"
	case KindReflection:
		return "Instructional Reflection"
	default:
		return string(k)
	}
}

// Flags are request-wide switches.
type Flags struct {
	// AlignmentMode maps feedback to the TTESS rubric. Without it the
	// coach avoids numeric scores and appraisal language.
	AlignmentMode bool
}

// Request is one coaching request. Context carries the rendered notes the
// model works from; the system prompt and schema are chosen by Kind.
type Request struct {
	Kind        Kind
	Context     string
	Attachments []Attachment
	Flags       Flags
}

// Attachment is a binary file sent with a request.
type Attachment struct {
	Name     string
	MIMEType string
	Data     string // standard base64
}

// Size returns the decoded size in bytes.
func (a Attachment) Size() int {
	n := base64.StdEncoding.DecodedLen(len(a.Data))
	return n - strings.Count(a.Data[max(0, len(a.Data)-2):], "=")
}

// Bytes decodes the attachment payload.
func (a Attachment) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(a.Data)
}

func (a Attachment) toLLM() llm.Attachment {
	return llm.Attachment{MIMEType: a.MIMEType, Data: a.Data}
}

// MaxAttachmentSize bounds a single attachment. Inline request payloads
// are limited to about 20 MB by the model APIs.
const MaxAttachmentSize = 20 << 20

// ErrEmptyAttachment is returned when an attachment has no content.
var ErrEmptyAttachment = errors.New("attachment is empty")

// EncodeAttachment base64-encodes data. An empty mimeType is detected
// from the name's extension, falling back to content sniffing.
func EncodeAttachment(name string, data []byte, mimeType string) (Attachment, error) {
	if len(data) == 0 {
		return Attachment{}, ErrEmptyAttachment
	}
	if len(data) > MaxAttachmentSize {
		return Attachment{}, fmt.Errorf("attachment %q is %d bytes, limit is %d", name, len(data), MaxAttachmentSize)
	}
	if mimeType == "" {
		mimeType = DetectMIMEType(name, data)
	}
	return Attachment{
		Name:     name,
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

// LoadAttachment reads and encodes the file at path.
func LoadAttachment(path string) (Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.Size() > MaxAttachmentSize {
		return Attachment{}, fmt.Errorf("attachment %q is %d bytes, limit is %d", path, info.Size(), MaxAttachmentSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("read attachment: %w", err)
	}
	return EncodeAttachment(filepath.Base(path), data, "")
}

// DetectMIMEType resolves a media type from the file extension, then from
// the leading bytes. Parameters such as charset are stripped.
func DetectMIMEType(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		ext = strings.ToLower(ext)
		if t, ok := recordingTypes[ext]; ok {
			return t
		}
		if t := mime.TypeByExtension(ext); t != "" {
			return baseMediaType(t)
		}
	}
	return baseMediaType(http.DetectContentType(data))
}

// recordingTypes pins classroom recording formats, whose names vary
// between system MIME tables.
var recordingTypes = map[string]string{
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
}

func baseMediaType(t string) string {
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

package domain

// Document represents a single text file loaded into the system.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk is a fixed-size contiguous slice of a source document's text,
// the unit of retrieval. Chunks are immutable once created.
type Chunk struct {
	SourceID string
	Text     string
	Index    int
}

// ScoredChunk is a chunk returned from a similarity search together
// with its squared Euclidean distance to the query vector.
type ScoredChunk struct {
	Chunk    Chunk
	Distance float64
}

// OutlineEntry is one planned lesson: a name and a one-sentence abstract.
// Lesson order is pedagogically meaningful and must be preserved.
type OutlineEntry struct {
	Name     string
	Abstract string
}

// SentinelOutlineName marks the placeholder entry substituted when the
// outline response could not be parsed. Downstream stages proceed with
// degraded output instead of aborting the session.
const SentinelOutlineName = "outline unavailable"

// SentinelOutlineEntry returns the placeholder entry used when outline
// parsing fails.
func SentinelOutlineEntry() OutlineEntry {
	return OutlineEntry{
		Name:     SentinelOutlineName,
		Abstract: "The course outline could not be generated from the model response.",
	}
}

// IsSentinel reports whether the entry is the parse-failure placeholder.
func (e OutlineEntry) IsSentinel() bool { return e.Name == SentinelOutlineName }

// Message roles as used by the completion service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a conversation.
type Message struct {
	Role    string
	Content string
}

// Transcript is the append-only message history of one interactive
// session. It is single-writer and not persisted.
type Transcript struct {
	messages []Message
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(role, content string) {
	t.messages = append(t.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the transcript in insertion order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int { return len(t.messages) }

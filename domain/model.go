package domain

// CanonicalAudioContentType is the only content type whisper accepts without
// transcoding. Anything else, including an empty content type, goes through
// ffmpeg first.
const CanonicalAudioContentType = "audio/webm;codecs=opus"

// NormalizedAudioName is the fixed name given to normalized audio regardless
// of the original upload's filename.
const NormalizedAudioName = "audio.webm"

// AudioPayload is one raw utterance as received from the transport.
type AudioPayload struct {
	Data        []byte
	ContentType string
}

// NormalizedAudio is audio in the canonical opus/webm form, ready for
// transcription.
type NormalizedAudio struct {
	Data []byte
	Name string
}

// StoryBrief is the planner output shared read-only by the text streamer and
// the illustrator.
type StoryBrief struct {
	Title string
	Gist  string
}

// FullStoryPlan is the long-form planner output used by the single-shot
// deployment variants: the complete story text in one piece, plus optional
// comprehension questions.
type FullStoryPlan struct {
	Title     string
	Text      string
	Questions []string
}

// StoryChunk is one incremental fragment of generated story text. Delivery
// order equals generation order.
type StoryChunk string

// Illustration is the single generated image for a brief.
type Illustration struct {
	URL string
}

// StoryResult is the complete single-shot response.
type StoryResult struct {
	Title     string
	Text      string
	Questions []string
	ImageURL  string
}

type EventType string

const (
	AudioTextEventType EventType = "audio_text"
	TitleEventType     EventType = "title"
	TextEventType      EventType = "text"
	ImageEventType     EventType = "image"
	DoneEventType      EventType = "done"
	ErrorEventType     EventType = "error"
)

// SessionEvent is the outbound protocol unit written to the interactive
// transport as {"type": ..., "value": ...}.
type SessionEvent struct {
	Type  EventType   `json:"type"`
	Value interface{} `json:"value,omitempty"`
}

// ErrorPayload lets the client tell a failed stage apart from a closed
// session: an error event names the stage and the loop keeps going.
type ErrorPayload struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func NewAudioTextEvent(transcript string) SessionEvent {
	return SessionEvent{Type: AudioTextEventType, Value: transcript}
}

func NewTitleEvent(title string) SessionEvent {
	return SessionEvent{Type: TitleEventType, Value: title}
}

func NewTextEvent(chunk StoryChunk) SessionEvent {
	return SessionEvent{Type: TextEventType, Value: string(chunk)}
}

func NewImageEvent(illustration Illustration) SessionEvent {
	return SessionEvent{Type: ImageEventType, Value: illustration.URL}
}

func NewDoneEvent() SessionEvent {
	return SessionEvent{Type: DoneEventType}
}

func NewErrorEvent(stage string, err error) SessionEvent {
	return SessionEvent{Type: ErrorEventType, Value: ErrorPayload{
		Stage:   stage,
		Message: err.Error(),
	}}
}

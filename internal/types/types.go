package types

type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

type Mode string

const (
	ModeSegmented Mode = "segmented"
	ModeFull      Mode = "full"
)

type Document struct {
	Path   string
	Format Format
}

type AudioClip struct {
	Index    int
	Path     string
	Duration float64
	Silent   bool
}

// SpeechTrack is the concatenated narration audio together with the
// per-sentence clips it was built from. Clips[i] always belongs to Sentences[i].
type SpeechTrack struct {
	AudioPath string
	Clips     []AudioClip
	Sentences []string
}

func (s SpeechTrack) Durations() []float64 {
	out := make([]float64, len(s.Clips))
	for i, c := range s.Clips {
		out[i] = c.Duration
	}
	return out
}

func (s SpeechTrack) TotalDuration() float64 {
	var total float64
	for _, c := range s.Clips {
		total += c.Duration
	}
	return total
}

// VisualSet holds the visuals that were actually produced. Files are numbered
// contiguously from 0; SourceIndex records which sentence each one came from.
type VisualSet struct {
	Dir         string
	Files       []string
	Prompts     []string
	SourceIndex []int
}

func (v VisualSet) Count() int { return len(v.Files) }

type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

type Manifest struct {
	Input     string          `json:"input"`
	Mode      Mode            `json:"mode"`
	Narration string          `json:"narration"`
	Audio     string          `json:"audio"`
	Video     string          `json:"video"`
	Subtitles string          `json:"subtitles,omitempty"`
	Truncated bool            `json:"truncated"`
	Scenes    []ManifestScene `json:"scenes"`
}

type ManifestScene struct {
	Index       int     `json:"index"`
	Sentence    string  `json:"sentence"`
	Prompt      string  `json:"prompt,omitempty"`
	DurationSec float64 `json:"duration_sec"`
	SilentAudio bool    `json:"silent_audio"`
	Visual      string  `json:"visual,omitempty"`
	SourceIndex int     `json:"source_index"`
}

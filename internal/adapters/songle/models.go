package songle

// songleArtist represents the artist object nested in a song response.
type songleArtist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// songleSong represents the Songle API response for a song and one search hit.
type songleSong struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	URL          string       `json:"url"`
	Permalink    string       `json:"permalink"`
	Artist       songleArtist `json:"artist"`
	Duration     float64      `json:"duration"`
	Code         string       `json:"code"`
	RMSAmplitude float64      `json:"rmsAmplitude"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
	RecognizedAt string       `json:"recognizedAt"`
}

// shapeError rejects song bodies without an id, which is how null and {} decode.
func (s *songleSong) shapeError() string {
	if s.ID == 0 {
		return "song has no id"
	}
	return ""
}

type songleBeat struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	Count    int     `json:"count"`
	Position int     `json:"position"`
	BPM      float64 `json:"bpm"`
}

type songleBeatMap struct {
	Beats []songleBeat `json:"beats"`
}

type songleChord struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Name     string  `json:"name"`
}

type songleChordMap struct {
	Chords []songleChord `json:"chords"`
}

// songleNote carries the pitch in Hz and, on newer maps, the MIDI note number.
type songleNote struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Pitch    float64 `json:"pitch"`
	Number   *int    `json:"number"`
}

type songleMelodyMap struct {
	Notes []songleNote `json:"notes"`
}

type songleRepeat struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// songleSegment is shared by chorus and repeat segments.
type songleSegment struct {
	Index    int            `json:"index"`
	IsChorus bool           `json:"isChorus"`
	Duration float64        `json:"duration"`
	Repeats  []songleRepeat `json:"repeats"`
}

type songleChorusMap struct {
	ChorusSegments []songleSegment `json:"chorusSegments"`
	RepeatSegments []songleSegment `json:"repeatSegments"`
}

type songleRevision struct {
	ID        int    `json:"id"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

package dictionary

// Entry is one headword as returned by the dictionary API.
type Entry struct {
	Word         string     `json:"word"`
	PhoneticText string     `json:"phonetic,omitempty"`
	Phonetics    []Phonetic `json:"phonetics,omitempty"`
	Meanings     []Meaning  `json:"meanings"`
	SourceURLs   []string   `json:"sourceUrls,omitempty"`
}

type Phonetic struct {
	Text  string `json:"text,omitempty"`
	Audio string `json:"audio,omitempty"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
	Synonyms     []string     `json:"synonyms,omitempty"`
	Antonyms     []string     `json:"antonyms,omitempty"`
}

type Definition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example,omitempty"`
	Synonyms   []string `json:"synonyms,omitempty"`
	Antonyms   []string `json:"antonyms,omitempty"`
}

// Phonetic returns the headword transcription, or the first transcription
// listed under phonetics.
func (e *Entry) Phonetic() string {
	if e.PhoneticText != "" {
		return e.PhoneticText
	}
	for _, p := range e.Phonetics {
		if p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// PrimaryDefinition returns the first definition of the first meaning.
func (e *Entry) PrimaryDefinition() string {
	for _, m := range e.Meanings {
		if len(m.Definitions) > 0 {
			return m.Definitions[0].Definition
		}
	}
	return ""
}

// FirstExample returns the first usage example across all meanings.
func (e *Entry) FirstExample() string {
	for _, m := range e.Meanings {
		for _, d := range m.Definitions {
			if d.Example != "" {
				return d.Example
			}
		}
	}
	return ""
}

// Synonyms returns up to limit meaning-level synonyms in order.
func (e *Entry) Synonyms(limit int) []string {
	var out []string
	for _, m := range e.Meanings {
		for _, s := range m.Synonyms {
			if len(out) == limit {
				return out
			}
			out = append(out, s)
		}
	}
	return out
}

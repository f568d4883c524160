package models

// Entity marks a labeled span inside the text of an Example.
type Entity struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Value  string `json:"value"`
	Entity string `json:"entity"`
}

type Example struct {
	Text     string   `json:"text"`
	Intent   string   `json:"intent"`
	Entities []Entity `json:"entities"`
}

type RegexFeature struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

type Synonym struct {
	Value    string   `json:"value"`
	Synonyms []string `json:"synonyms"`
}

// Document is the full training dataset. Each collection is ordered and
// independent of the other two.
type Document struct {
	Examples      []Example      `json:"common_examples"`
	RegexFeatures []RegexFeature `json:"regex_features"`
	Synonyms      []Synonym      `json:"entity_synonyms"`
}

// Envelope is the shape of the save file.
type Envelope struct {
	Data Document `json:"rasa_nlu_data"`
}

func NewDocument() Document {
	return Document{
		Examples:      []Example{},
		RegexFeatures: []RegexFeature{},
		Synonyms:      []Synonym{},
	}
}

func (e Example) Clone() Example {
	if e.Entities != nil {
		e.Entities = append(make([]Entity, 0, len(e.Entities)), e.Entities...)
	}
	return e
}

func (r RegexFeature) Clone() RegexFeature {
	return r
}

func (s Synonym) Clone() Synonym {
	if s.Synonyms != nil {
		s.Synonyms = append(make([]string, 0, len(s.Synonyms)), s.Synonyms...)
	}
	return s
}

// Clone returns a deep copy. Collections of the copy are never nil.
func (d Document) Clone() Document {
	return Document{
		Examples:      CloneAll(d.Examples),
		RegexFeatures: CloneAll(d.RegexFeatures),
		Synonyms:      CloneAll(d.Synonyms),
	}
}

// Merge appends the collections of other after those of d, keeping the
// order within each source.
func (d Document) Merge(other Document) Document {
	merged := d.Clone()
	merged.Examples = append(merged.Examples, CloneAll(other.Examples)...)
	merged.RegexFeatures = append(merged.RegexFeatures, CloneAll(other.RegexFeatures)...)
	merged.Synonyms = append(merged.Synonyms, CloneAll(other.Synonyms)...)
	return merged
}

// Normalize replaces nil collections with empty ones so that they encode
// as [] rather than null.
func (d *Document) Normalize() {
	if d.Examples == nil {
		d.Examples = []Example{}
	}
	if d.RegexFeatures == nil {
		d.RegexFeatures = []RegexFeature{}
	}
	if d.Synonyms == nil {
		d.Synonyms = []Synonym{}
	}
}

func (d Document) IsEmpty() bool {
	return len(d.Examples) == 0 && len(d.RegexFeatures) == 0 && len(d.Synonyms) == 0
}

// Record is any value stored in a Document collection.
type Record[T any] interface {
	Clone() T
}

// CloneAll deep-copies a collection. The result is never nil.
func CloneAll[T Record[T]](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

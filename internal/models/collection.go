package models

import "fmt"

// Collection names one of the three sequences of a Document.
type Collection int

const (
	Examples Collection = iota
	RegexFeatures
	Synonyms
)

var collectionNames = map[Collection]string{
	Examples:      "common_examples",
	RegexFeatures: "regex_features",
	Synonyms:      "entity_synonyms",
}

// Collections lists every collection in Document field order.
var Collections = []Collection{Examples, RegexFeatures, Synonyms}

// String returns the wire name used in the save file.
func (c Collection) String() string {
	if name, ok := collectionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("collection(%d)", int(c))
}

// ParseCollection accepts the wire name or the short route name.
func ParseCollection(s string) (Collection, error) {
	switch s {
	case "common_examples", "common-example", "examples":
		return Examples, nil
	case "regex_features", "regex-feature":
		return RegexFeatures, nil
	case "entity_synonyms", "entity-synonym", "synonyms":
		return Synonyms, nil
	}
	return 0, fmt.Errorf("unknown collection %q", s)
}

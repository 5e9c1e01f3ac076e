package properties

import "strings"

// Kind groups vocabulary entries shared across properties.
type Kind string

const (
	KindAmenity  Kind = "amenity"
	KindFacility Kind = "facility"
	KindSafety   Kind = "safety"
	KindRoomType Kind = "room_type"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindAmenity:
		return KindAmenity, nil
	case KindFacility:
		return KindFacility, nil
	case KindSafety:
		return KindSafety, nil
	case KindRoomType:
		return KindRoomType, nil
	}
	return "", ErrInvalidKind
}

type VocabularyEntry struct {
	ID   VocabularyID
	Kind Kind
	Name string
	Icon string
}

func NewVocabularyEntry(id VocabularyID, kind Kind, name, icon string) (*VocabularyEntry, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &VocabularyEntry{ID: id, Kind: kind, Name: name, Icon: strings.TrimSpace(icon)}, nil
}

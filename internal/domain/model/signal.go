package model

// SignalKind tags the variant carried by a ContentSignal.
type SignalKind string

// Signal kinds.
const (
	SignalNone SignalKind = "baseline"
	SignalText SignalKind = "transcript"
	SignalFile SignalKind = "file"
)

// ContentSignal is the optional observation used to vary scoring output.
// Implementations are TextSignal and FileSignal; a nil signal means baseline.
type ContentSignal interface {
	Kind() SignalKind
}

// TextSignal carries a transcript of the candidate's answer.
type TextSignal struct {
	Transcript string
}

// Kind implements ContentSignal.
func (TextSignal) Kind() SignalKind { return SignalText }

// FileSignal identifies an uploaded recording by name and byte size.
type FileSignal struct {
	Name string
	Size int64
}

// Kind implements ContentSignal.
func (FileSignal) Kind() SignalKind { return SignalFile }

// KindOf returns the kind of s, treating nil as SignalNone.
func KindOf(s ContentSignal) SignalKind {
	if s == nil {
		return SignalNone
	}
	return s.Kind()
}

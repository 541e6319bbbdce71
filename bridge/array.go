package bridge

import (
	"iter"
	"slices"
)

// noCopy makes go vet flag copies of values that own boundary resources.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// StringList is an owned, length-tagged list of strings handed to the caller.
// It must be released exactly once; releasing twice or releasing a copy is
// outside the contract and not detected.
type StringList struct {
	_     noCopy
	items []string
}

// NewStringList drains a single-pass sequence.
func NewStringList(seq iter.Seq[string]) *StringList {
	l := &StringList{}
	for s := range seq {
		l.items = append(l.items, s)
	}
	return l
}

func (l *StringList) Len() int { return len(l.items) }

func (l *StringList) All() iter.Seq2[int, string] {
	return slices.All(l.items)
}

// Release hands every element to reclaim, then drops the backing storage.
// It returns how many elements were visited.
func (l *StringList) Release(reclaim func(string)) int {
	visited := 0
	for _, s := range l.items {
		if reclaim != nil {
			reclaim(s)
		}
		visited++
	}
	l.items = nil
	return visited
}

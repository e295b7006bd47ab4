package pdfpng

import "errors"

// session is the state of one conversion. A fresh session is created for
// every selected file and released on reset, on the next selection or
// when the Converter closes.
type session struct {
	base      string
	artifacts []*Artifact
}

func newSession(base string) *session {
	return &session{base: base}
}

func (s *session) add(a *Artifact) {
	s.artifacts = append(s.artifacts, a)
}

func (s *session) artifact(page int) *Artifact {
	for _, a := range s.artifacts {
		if a.Page == page {
			return a
		}
	}
	return nil
}

// snapshot returns copies so that release never writes to artifacts a
// caller already holds.
func (s *session) snapshot() []*Artifact {
	out := make([]*Artifact, len(s.artifacts))
	for i, a := range s.artifacts {
		cp := *a
		out[i] = &cp
	}
	return out
}

func (s *session) entries() []ArchiveEntry {
	entries := make([]ArchiveEntry, len(s.artifacts))
	for i, a := range s.artifacts {
		entries[i] = ArchiveEntry{Name: a.Name, Data: a.data}
	}
	return entries
}

// release frees every artifact reference exactly once.
func (s *session) release(refs RefStore) error {
	var errs []error
	for _, a := range s.artifacts {
		if a.Ref.IsZero() {
			continue
		}
		if err := refs.Release(a.Ref); err != nil {
			errs = append(errs, err)
		}
		a.Ref = Ref{}
	}
	s.artifacts = nil
	return errors.Join(errs...)
}

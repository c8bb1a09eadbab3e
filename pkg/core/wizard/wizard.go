// Package wizard implements the validation gate behind multi-section forms
// such as event creation (Basic/Schedule/Venue/Settings) and session
// reporting (Attendance/Logistics/Feedback/Evidence).
//
// The gate is an explicit finite-state machine over an ordered list of
// sections with one pure validation function per section, rather than ad hoc
// boolean flags in the UI layer. Moving forward requires the current section
// to validate; moving backward never does; submitting is only possible from
// the last section and re-validates the whole form.
package wizard

import (
	"errors"
	"fmt"
)

// FieldError reports one invalid field within a section.
type FieldError struct {
	Field   string
	Message string
}

// SectionError reports the invalid fields of a single section. A failed
// Advance reports only the current section, never the whole form.
type SectionError struct {
	Section string
	Fields  []FieldError
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %q has %d invalid field(s)", e.Section, len(e.Fields))
}

// SubmitError aggregates the section errors found when re-validating the
// whole form on submit.
type SubmitError struct {
	Sections []*SectionError
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("form has %d invalid section(s)", len(e.Sections))
}

var (
	// ErrAtLastSection is returned by Advance when there is no next section
	ErrAtLastSection = errors.New("already at the last section")

	// ErrNotAtLastSection is returned by Submit from any earlier section
	ErrNotAtLastSection = errors.New("submit is only available from the last section")
)

// Section is one ordered step of a form, with a pure validator over the form
// value. Validate returns nil (or empty) when the section's required fields
// are all valid.
type Section[F any] struct {
	Name     string
	Validate func(form F) []FieldError
}

// Gate tracks the user's position in a multi-section form and enforces the
// navigation rules. It holds no form data - the form value is passed into
// each call, so the gate itself stays a small state value.
type Gate[F any] struct {
	sections []Section[F]
	current  int
}

// NewGate creates a gate positioned at the first section.
func NewGate[F any](sections ...Section[F]) (*Gate[F], error) {
	if len(sections) == 0 {
		return nil, errors.New("a form needs at least one section")
	}
	for i, section := range sections {
		if section.Validate == nil {
			return nil, fmt.Errorf("section %d (%q) has no validator", i, section.Name)
		}
	}
	return &Gate[F]{sections: sections}, nil
}

// Current returns the name of the section the user is on.
func (g *Gate[F]) Current() string {
	return g.sections[g.current].Name
}

// CurrentIndex returns the zero-based index of the current section.
func (g *Gate[F]) CurrentIndex() int {
	return g.current
}

// SectionNames returns the ordered section names, for rendering tab headers.
func (g *Gate[F]) SectionNames() []string {
	names := make([]string, len(g.sections))
	for i, section := range g.sections {
		names[i] = section.Name
	}
	return names
}

// Advance moves to the next section if the current section validates.
// On validation failure it returns a *SectionError for the current section
// only and does not move. From the last section it returns ErrAtLastSection.
func (g *Gate[F]) Advance(form F) error {
	if g.current == len(g.sections)-1 {
		return ErrAtLastSection
	}

	section := g.sections[g.current]
	if fields := section.Validate(form); len(fields) > 0 {
		return &SectionError{Section: section.Name, Fields: fields}
	}

	g.current++
	return nil
}

// Retreat moves to the previous section. Going backward never re-validates.
// At the first section it is a no-op.
func (g *Gate[F]) Retreat() {
	if g.current > 0 {
		g.current--
	}
}

// Jump moves directly to the named section without validating, matching the
// tab-header behaviour of the forms this gate fronts. Submit still
// re-validates everything, so skipped sections cannot slip through.
func (g *Gate[F]) Jump(name string) error {
	for i, section := range g.sections {
		if section.Name == name {
			g.current = i
			return nil
		}
	}
	return fmt.Errorf("unknown section %q", name)
}

// Submit accepts the form from the last section after re-validating every
// section. From any earlier section it returns ErrNotAtLastSection. If any
// section fails, it returns a *SubmitError listing all of them and the gate
// stays on the last section.
func (g *Gate[F]) Submit(form F) error {
	if g.current != len(g.sections)-1 {
		return ErrNotAtLastSection
	}

	var failed []*SectionError
	for _, section := range g.sections {
		if fields := section.Validate(form); len(fields) > 0 {
			failed = append(failed, &SectionError{Section: section.Name, Fields: fields})
		}
	}
	if len(failed) > 0 {
		return &SubmitError{Sections: failed}
	}

	return nil
}

package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testForm is a minimal two-section form for exercising the gate
type testForm struct {
	Name  string
	Venue string
}

func testSections() []Section[testForm] {
	return []Section[testForm]{
		{
			Name: "Basic",
			Validate: func(f testForm) []FieldError {
				if f.Name == "" {
					return []FieldError{{Field: "name", Message: "name is required"}}
				}
				return nil
			},
		},
		{
			Name: "Venue",
			Validate: func(f testForm) []FieldError {
				if f.Venue == "" {
					return []FieldError{{Field: "venue", Message: "venue is required"}}
				}
				return nil
			},
		},
	}
}

func TestNewGate_RequiresSections(t *testing.T) {
	_, err := NewGate[testForm]()
	assert.Error(t, err)
}

func TestNewGate_RequiresValidators(t *testing.T) {
	_, err := NewGate(Section[testForm]{Name: "Basic"})
	assert.Error(t, err)
}

func TestAdvance_BlockedByInvalidSection(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	err = gate.Advance(testForm{})
	require.Error(t, err)

	// The failure names only the current section's fields and does not move
	var sectionErr *SectionError
	require.ErrorAs(t, err, &sectionErr)
	assert.Equal(t, "Basic", sectionErr.Section)
	require.Len(t, sectionErr.Fields, 1)
	assert.Equal(t, "name", sectionErr.Fields[0].Field)
	assert.Equal(t, "Basic", gate.Current())
}

func TestAdvance_MovesWhenValid(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	require.NoError(t, gate.Advance(testForm{Name: "Street Cleanup"}))
	assert.Equal(t, "Venue", gate.Current())
	assert.Equal(t, 1, gate.CurrentIndex())
}

func TestAdvance_AtLastSection(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	form := testForm{Name: "Street Cleanup", Venue: "Town Hall"}
	require.NoError(t, gate.Advance(form))

	assert.ErrorIs(t, gate.Advance(form), ErrAtLastSection)
}

func TestRetreat_AlwaysPermitted(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	require.NoError(t, gate.Advance(testForm{Name: "Street Cleanup"}))

	// Retreating never re-validates, even with an invalid form
	gate.Retreat()
	assert.Equal(t, "Basic", gate.Current())

	// Retreat at the first section is a no-op
	gate.Retreat()
	assert.Equal(t, "Basic", gate.Current())
}

func TestJump_SkipsValidation(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	// Jumping forward works even while the current section is invalid
	require.NoError(t, gate.Jump("Venue"))
	assert.Equal(t, "Venue", gate.Current())

	assert.Error(t, gate.Jump("Nonexistent"))
}

func TestSubmit_OnlyFromLastSection(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	assert.ErrorIs(t, gate.Submit(testForm{Name: "a", Venue: "b"}), ErrNotAtLastSection)
}

func TestSubmit_RevalidatesEverySection(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	// Jump past the invalid Basic section, then try to submit
	require.NoError(t, gate.Jump("Venue"))

	err = gate.Submit(testForm{Venue: "Town Hall"})
	require.Error(t, err)

	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	require.Len(t, submitErr.Sections, 1)
	assert.Equal(t, "Basic", submitErr.Sections[0].Section)
}

func TestSubmit_Accepts(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	form := testForm{Name: "Street Cleanup", Venue: "Town Hall"}
	require.NoError(t, gate.Advance(form))
	assert.NoError(t, gate.Submit(form))
}

func TestSectionNames(t *testing.T) {
	gate, err := NewGate(testSections()...)
	require.NoError(t, err)

	assert.Equal(t, []string{"Basic", "Venue"}, gate.SectionNames())
}

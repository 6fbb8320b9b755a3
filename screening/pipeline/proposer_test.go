package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProposer(gen GeneratorFunc, seed int64) *Proposer {
	p := NewProposer(gen, rand.New(rand.NewSource(seed)))
	// Monday 2026-06-01 12:00 UTC.
	p.now = func() time.Time {
		return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func TestProposeSlotsBusinessDaysOnly(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		p := newTestProposer(staticGenerator("", nil), seed)
		slots := p.ProposeSlots(3)

		require.Len(t, slots, 3)
		for _, s := range slots {
			assert.NotEqual(t, time.Saturday, s.Weekday())
			assert.NotEqual(t, time.Sunday, s.Weekday())
			assert.GreaterOrEqual(t, s.Hour(), 9)
			assert.LessOrEqual(t, s.Hour(), 16)
			assert.Contains(t, []int{0, 30}, s.Minute())
		}
	}
}

func TestProposeSlotsStartThreeDaysOutAndAscend(t *testing.T) {
	p := newTestProposer(staticGenerator("", nil), 1)
	slots := p.ProposeSlots(3)

	require.Len(t, slots, 3)
	// now is Monday June 1st, so the first eligible day is Thursday June 4th.
	assert.Equal(t, 4, slots[0].Day())
	assert.Equal(t, 5, slots[1].Day())
	// Saturday and Sunday are skipped.
	assert.Equal(t, 8, slots[2].Day())
	assert.True(t, slots[0].Before(slots[1]))
	assert.True(t, slots[1].Before(slots[2]))
}

func TestPickModalityFromKnownSet(t *testing.T) {
	p := newTestProposer(staticGenerator("", nil), 7)
	for i := 0; i < 20; i++ {
		assert.Contains(t, Modalities, p.PickModality())
	}
}

func TestFormatSlots(t *testing.T) {
	slots := []time.Time{
		time.Date(2026, time.June, 4, 10, 30, 0, 0, time.UTC),
		time.Date(2026, time.June, 5, 14, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, 8, 9, 0, 0, 0, time.UTC),
	}

	got := FormatSlots(slots)

	assert.Equal(t,
		"Thursday, June 04 at 10:30 AM, Friday, June 05 at 02:00 PM or Monday, June 08 at 09:00 AM",
		got,
	)
	assert.Equal(t, "Thursday, June 04 at 10:30 AM", FormatSlots(slots[:1]))
	assert.Equal(t, "", FormatSlots(nil))
}

func TestComposeInvitationIncludesSlotsInPrompt(t *testing.T) {
	var captured string
	gen := GeneratorFunc(func(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
		captured = prompt
		return "Dear Ada, ...", nil
	})

	p := newTestProposer(gen, 3)
	slots := p.ProposeSlots(2)
	candidate := &ScoredCandidate{
		Name:       "Ada Lovelace",
		Attributes: AttributeRecord{"skills": "Go, distributed systems"},
	}

	got := p.ComposeInvitation(context.Background(), candidate, "Backend Engineer", "Initech", slots)

	assert.Equal(t, "Dear Ada, ...", got)
	assert.Contains(t, captured, "Ada Lovelace")
	assert.Contains(t, captured, "Backend Engineer")
	assert.Contains(t, captured, "Initech")
	assert.Contains(t, captured, "Go, distributed systems")
	assert.Contains(t, captured, " or ")
	for _, s := range slots {
		assert.True(t, strings.Contains(captured, s.Format(slotLayout)))
	}
}

func TestComposeInvitationGenerationFailure(t *testing.T) {
	p := newTestProposer(staticGenerator("", errors.New("model unavailable")), 3)
	candidate := &ScoredCandidate{Name: "Ada", Attributes: AttributeRecord{}}

	got := p.ComposeInvitation(context.Background(), candidate, "Backend Engineer", "Initech", p.ProposeSlots(3))

	assert.Equal(t, "", got)
}

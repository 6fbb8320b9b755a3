package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Abraxas-365/sift/pkg/logx"
)

// Modalities an interview can take. PickModality draws uniformly from this
// set.
var Modalities = []string{
	"Video Call",
	"Phone Interview",
	"In-Person",
	"Technical Assessment",
}

const slotLayout = "Monday, January 02 at 03:04 PM"

const invitationSystemPrompt = `You are a professional recruiter. Write a personalized email to invite a candidate for an interview.
The email should be professional, friendly, and include:
1. A personalized greeting
2. Brief mention of their qualifications that impressed you
3. Information about the role
4. Suggested interview dates
5. Next steps
6. A professional sign-off

Keep the email concise and to the point.`

// Proposer generates interview slot proposals and invitation emails for
// shortlisted candidates.
type Proposer struct {
	gen TextGenerator
	rng *rand.Rand
	now func() time.Time
}

// NewProposer creates a proposer. The rand source drives slot times and
// modality choice; tests seed it for reproducibility.
func NewProposer(gen TextGenerator, rng *rand.Rand) *Proposer {
	return &Proposer{gen: gen, rng: rng, now: time.Now}
}

// ProposeSlots returns count interview slots in chronological order, one per
// business day starting three days from now. Weekends are skipped, times fall
// on the hour or half hour between 09:00 and 16:30.
func (p *Proposer) ProposeSlots(count int) []time.Time {
	slots := make([]time.Time, 0, count)
	day := p.now().AddDate(0, 0, 3)

	for len(slots) < count {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			hour := 9 + p.rng.Intn(8)
			minute := 30 * p.rng.Intn(2)
			slot := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			slots = append(slots, slot)
		}
		day = day.AddDate(0, 0, 1)
	}

	return slots
}

// PickModality draws a random interview modality.
func (p *Proposer) PickModality() string {
	return Modalities[p.rng.Intn(len(Modalities))]
}

// ComposeInvitation writes a personalized invitation email offering the given
// slots. A generation failure yields the empty string; callers treat an empty
// invitation as "send manually".
func (p *Proposer) ComposeInvitation(ctx context.Context, candidate *ScoredCandidate, jobTitle, companyName string, slots []time.Time) string {
	prompt := fmt.Sprintf(`Company: %s
Job Title: %s
Candidate Name: %s
Candidate Skills: %s
Potential Interview Dates: %s

Write a personalized interview invitation email:`,
		companyName,
		jobTitle,
		candidate.Name,
		candidate.Attributes["skills"],
		FormatSlots(slots),
	)

	invitation, err := p.gen.Generate(ctx, prompt, invitationSystemPrompt, 1000)
	if err != nil {
		logx.Warnf("invitation generation failed for candidate %s: %v", candidate.ID, err)
		return ""
	}
	return invitation
}

// FormatSlots renders slots for prose, e.g. "Monday, June 09 at 10:30 AM,
// Tuesday, June 10 at 02:00 PM or Wednesday, June 11 at 09:00 AM".
func FormatSlots(slots []time.Time) string {
	if len(slots) == 0 {
		return ""
	}

	formatted := make([]string, len(slots))
	for i, s := range slots {
		formatted[i] = s.Format(slotLayout)
	}
	if len(formatted) == 1 {
		return formatted[0]
	}
	return strings.Join(formatted[:len(formatted)-1], ", ") + " or " + formatted[len(formatted)-1]
}

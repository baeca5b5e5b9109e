package ai

import (
	"context"
	"fmt"
	"strings"
)

// TemplateName identifies content produced without any model.
const TemplateName = "template"

// fallbackProposal renders a proposal from the selections alone. It never fails.
func fallbackProposal(s Selections) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Catering Proposal for %s\n\n", nameOr(s))
	fmt.Fprintf(&b, "Thank you for considering us for your %s", eventOr(s.EventType))
	if s.EventDate != nil {
		fmt.Fprintf(&b, " on %s", s.EventDate.Format("January 2, 2006"))
	}
	if s.EventLocation != "" {
		fmt.Fprintf(&b, " at %s", s.EventLocation)
	}
	fmt.Fprintf(&b, ". Below is the menu we have put together for %d guests.\n\n", s.GuestCount)

	b.WriteString("## Main Course\n")
	for _, p := range s.Proteins {
		if s.Preparation != "" {
			fmt.Fprintf(&b, "- %s, %s\n", p, s.Preparation)
		} else {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	if len(s.Sides) > 0 {
		b.WriteString("\n## Sides\n")
		for _, side := range s.Sides {
			fmt.Fprintf(&b, "- %s\n", side)
		}
	}
	if s.Bread != "" {
		fmt.Fprintf(&b, "\n## Bread\n- %s\n", s.Bread)
	}
	if strings.TrimSpace(s.Allergies) != "" {
		fmt.Fprintf(&b, "\n## Dietary Notes\nOur kitchen will accommodate the following: %s.\n", s.Allergies)
	}
	if strings.TrimSpace(s.SpecialRequests) != "" {
		fmt.Fprintf(&b, "\n## Special Requests\n%s\n", s.SpecialRequests)
	}
	b.WriteString("\nA member of our events team will follow up to confirm the details.\n")
	return b.String()
}

func fallbackMenu(s Selections) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Menu: %s\n\n", eventOr(s.EventType))
	for _, p := range s.Proteins {
		fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(p+" "+s.Preparation))
	}
	for _, side := range s.Sides {
		fmt.Fprintf(&b, "- %s\n", side)
	}
	if s.Bread != "" {
		fmt.Fprintf(&b, "- %s\n", s.Bread)
	}
	if strings.TrimSpace(s.Allergies) != "" {
		fmt.Fprintf(&b, "\nAllergens noted: %s\n", s.Allergies)
	}
	return b.String()
}

func nameOr(s Selections) string {
	if s.Company != "" {
		return s.Company
	}
	if s.Name != "" {
		return s.Name
	}
	return "Our Guest"
}

func eventOr(t string) string {
	if strings.TrimSpace(t) == "" {
		return "event"
	}
	return t
}

// Mock answers every prompt with a fixed reply, or fails when Err is set.
type Mock struct {
	ID    string
	Reply string
	Err   error
	Calls int
}

func (m *Mock) Name() string {
	if m.ID == "" {
		return "mock"
	}
	return m.ID
}

func (m *Mock) Complete(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if strings.TrimSpace(m.Reply) == "" {
		return "", ErrEmptyResponse
	}
	return m.Reply, nil
}

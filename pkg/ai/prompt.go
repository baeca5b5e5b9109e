package ai

import (
	"fmt"
	"strings"
)

func BuildProposalPrompt(s Selections) string {
	var b strings.Builder
	b.WriteString("Write a catering proposal for the following event.\n")
	b.WriteString("Include: a greeting, a menu section per course, service notes, and a short closing.\n")
	b.WriteString("Do not invent prices; pricing is attached separately.\n\n")
	writeSelections(&b, s)
	return b.String()
}

func BuildMenuPrompt(s Selections) string {
	var b strings.Builder
	b.WriteString("Design a plated or buffet menu document for this event.\n")
	b.WriteString("List each dish with a one-line description and mark allergens.\n\n")
	writeSelections(&b, s)
	return b.String()
}

func writeSelections(b *strings.Builder, s Selections) {
	fmt.Fprintf(b, "CLIENT: %s\n", s.Name)
	if s.Company != "" {
		fmt.Fprintf(b, "COMPANY: %s\n", s.Company)
	}
	fmt.Fprintf(b, "EVENT TYPE: %s\n", orDash(s.EventType))
	if s.EventDate != nil {
		fmt.Fprintf(b, "EVENT DATE: %s\n", s.EventDate.Format("Monday, January 2, 2006"))
	} else {
		b.WriteString("EVENT DATE: -\n")
	}
	fmt.Fprintf(b, "LOCATION: %s\n", orDash(s.EventLocation))
	fmt.Fprintf(b, "GUESTS: %d\n", s.GuestCount)
	fmt.Fprintf(b, "PROTEINS: %s\n", orDash(strings.Join(s.Proteins, ", ")))
	fmt.Fprintf(b, "PREPARATION: %s\n", orDash(s.Preparation))
	fmt.Fprintf(b, "SIDES: %s\n", orDash(strings.Join(s.Sides, ", ")))
	fmt.Fprintf(b, "BREAD: %s\n", orDash(s.Bread))
	fmt.Fprintf(b, "ALLERGIES: %s\n", orDash(s.Allergies))
	fmt.Fprintf(b, "SPECIAL REQUESTS: %s\n", orDash(s.SpecialRequests))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

package aiimport

import (
	"fmt"
	"strings"

	"family-planner-go/internal/domain/schedule"
)

const dayListJSON = `["Monday","Tuesday","Wednesday","Thursday","Friday","Saturday","Sunday"]`

// BuildParsePrompt renders the instruction prompt for turning free-form
// schedule text into the activity JSON schema. The roster is included
// so the model can emit member ids instead of names.
func BuildParsePrompt(naturalText string, roster []schedule.Member, week, year *int) (string, error) {
	naturalText = strings.TrimSpace(naturalText)
	if naturalText == "" {
		return "", fmt.Errorf("text must be a non-empty string")
	}

	var rosterLines []string
	for _, member := range roster {
		name := strings.TrimSpace(member.Name)
		if name == "" {
			continue
		}
		rosterLines = append(rosterLines, fmt.Sprintf("- %q (id: %s)", name, member.ID))
	}
	rosterBlock := "- (none)"
	if len(rosterLines) > 0 {
		rosterBlock = strings.Join(rosterLines, "\n")
	}

	weekYear := "Week/year: (not specified)"
	if week != nil && year != nil {
		weekYear = fmt.Sprintf("Week: %d, Year: %d", *week, *year)
	}

	var b strings.Builder
	b.WriteString("You are a scheduling assistant. Respond ONLY with a JSON array (no extra text, no code fences).\n")
	b.WriteString("Family members (name -> id):\n")
	b.WriteString(rosterBlock)
	b.WriteString("\nContext: ")
	b.WriteString(weekYear)
	b.WriteString("\n\nREQUIRED OUTPUT SCHEMA (no \"date\"/\"dates\" fields):\n")
	b.WriteString(`[
  {
    "name": string,
    "icon": string (optional),
    "participants": [string],     // USE ONLY FAMILY MEMBER IDS (not names)
    "startTime": "HH:MM",         // 24h
    "endTime": "HH:MM",
    "days": ` + dayListJSON + `,  // one or more of these strings
    "week": number,               // ISO week
    "year": number                // ISO year
  }
]`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Participants: use exact ids from the list above. Unknown -> omit.\n")
	b.WriteString("- If the text names exact dates (e.g. \"2025-10-03\"), convert them yourself to the right \"days\"/\"week\"/\"year\".\n")
	b.WriteString("- Times: 24h \"HH:MM\".\n")
	b.WriteString("- Respond only with a JSON array matching the schema above.\n\n")
	b.WriteString("Text:\n\"\"\"")
	b.WriteString(naturalText)
	b.WriteString("\"\"\"")

	return b.String(), nil
}

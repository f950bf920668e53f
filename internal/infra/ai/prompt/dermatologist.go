package prompt

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

// Unknown replaces any profile field the user left blank.
const Unknown = "unknown"

// Sections are the headings the model is asked to produce, in order.
var Sections = []string{
	"Probable Causes",
	"Severity",
	"Immediate Care (0-7 days)",
	"2–6 Week Plan",
	"Foods to Eat & Avoid",
	"Red Flags",
	"Confidence Level",
	"Fun One-Line Summary",
}

const dermatologistTemplate = `
	You are a friendly **board-certified dermatologist**. Analyze the provided acne/pimple image and respond in a clear,
	structured and **engaging** way for the user.

	Sections to include (use emoji for each heading):

	1️⃣ **Probable Causes** — list top 3 likely reasons.
	2️⃣ **Severity** — classify as Mild / Moderate / Severe with a short reason.
	3️⃣ **Immediate Care (0-7 days)** — 5 safe daily steps + what to avoid.
	4️⃣ **2–6 Week Plan** — skincare + diet recommendations.
	5️⃣ **Foods to Eat & Avoid** — bullet list with ✅ & ❌.
	6️⃣ **Red Flags** — when to urgently see a dermatologist.
	7️⃣ **Confidence Level** — percentage & info that would improve accuracy.
	8️⃣ **Fun One-Line Summary** — make it uplifting and positive.

	**Skin type: %s**
	**Age: %s**

	⚠ Important: Do NOT prescribe prescription-only meds. Keep tone friendly & professional.
	`

// Build renders the dermatologist prompt for the given profile.
func Build(age, skinType string) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(dermatologistTemplate)), orUnknown(skinType), orUnknown(age))
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}

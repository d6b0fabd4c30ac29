// Package prompt renders the OpenAI instructions for a pet food label analysis.
package prompt

import (
	"fmt"
	"strings"

	"pet-nutrition-service/models"
)

// SystemInstruction is the fixed system message sent with every analysis.
// It pins the output to a single JSON object with exactly three fields.
const SystemInstruction = `You are a pet nutritionist expert. Analyze the nutritional information from pet food labels and provide recommendations based on the pet's profile.

Respond with a single valid JSON object and nothing else, using exactly this schema:
{
  "concerns": ["<concern 1>", "<concern 2>", ...],
  "recommendations": ["<recommendation 1>", "<recommendation 2>", ...],
  "score": <integer from 1 to 10 rating how suitable this food is for the pet>
}

No wrapping markdown. "concerns" and "recommendations" must be lists of strings; "score" must be an integer between 1 and 10.`

// Build renders the user instruction for the given pet profile.
// Same profile always yields the same text. Allergy and health-issue
// clauses are omitted entirely when the corresponding list is empty.
func Build(pet *models.Pet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Please analyze this pet food label for a %s year old %s named %s. They weigh %s pounds.",
		trimNumber(pet.Age), pet.PetType, pet.Name, trimNumber(pet.Weight))

	if len(pet.Allergies) > 0 {
		fmt.Fprintf(&b, " They have allergies to: %s.", strings.Join(pet.Allergies, ", "))
	}
	if len(pet.HealthIssues) > 0 {
		fmt.Fprintf(&b, " They have the following health issues: %s.", strings.Join(pet.HealthIssues, ", "))
	}

	b.WriteString(" Please provide a detailed analysis of whether this food is suitable for them, including any concerns or recommendations.")

	return b.String()
}

// trimNumber formats a float without trailing zeros (3 not 3.0, 2.5 stays 2.5)
func trimNumber(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

package analyze

import (
	"fmt"
	"strings"
)

// maxPromptTextLen caps the document text embedded in the prompt so a long
// scan cannot blow the model's context window.
const maxPromptTextLen = 12000

const promptTemplate = `You are a document analysis assistant. Analyze the following document text and respond with a single JSON object, no other text.

The JSON object must have exactly these fields:
- "documentType": one of "bill", "id", "certificate", "medicine", "insurance", "vehicle", "warranty", "other"
- "category": one of "Financial", "Government", "Health", "Personal", "Vehicle"
- "dueDate": payment due date as "YYYY-MM-DD", or null
- "expiryDate": expiration or renewal date as "YYYY-MM-DD", or null
- "issueDate": issue date as "YYYY-MM-DD", or null
- "amount": payable amount as a number, or null
- "idNumber": identifying number on the document, or null
- "provider": issuing company or authority, or null
- "priority": "HIGH" if a due or expiry date is within 7 days or the amount exceeds 10000, "MEDIUM" if a date is within 30 days or the amount is between 1000 and 10000, otherwise "LOW"
- "summary": one or two sentences describing the document

Document text:
%s`

// BuildPrompt renders the fixed instruction template for the given text.
func BuildPrompt(text string) string {
	if len(text) > maxPromptTextLen {
		text = text[:maxPromptTextLen]
	}
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(text))
}

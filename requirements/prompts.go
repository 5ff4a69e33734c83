package requirements

import "fmt"

func analysisPrompt(input string) string {
	return fmt.Sprintf(`You are an expert software architect analyzing requirements.

USER INPUT:
%s

TASK:
Analyze if this input contains enough information to generate a complete application.

Consider complete if it specifies:
1. Clear app purpose/domain
2. Main entities (at least 1-2)
3. Key fields for entities (explicit or clearly implied)

Consider incomplete if:
1. Too vague ("make an app")
2. Missing entity details
3. Unclear relationships
4. Ambiguous requirements

Respond with JSON:
{
  "complete": true/false,
  "confidence": 0-100,
  "reason": "explanation",
  "missingInfo": ["what's unclear"]
}

Only JSON, no explanation.`, input)
}

func extractionPrompt(input string) string {
	return fmt.Sprintf(`You are an expert software architect designing applications.

USER REQUEST:
%s

TASK:
Design a complete, production-ready application based on this request.

CRITICAL RULE - ONLY GENERATE REQUESTED ENTITIES:
- Generate ONLY the entities explicitly mentioned in the user request
- DO NOT add extra entities like Orders, Alerts, Movements, Suppliers, etc.
- DO NOT be "helpful" by adding entities you think might be needed
- If the user says "Products and Categories", generate ONLY Products and Categories
- Stick strictly to what was requested

Use your expertise to:
- Choose appropriate field types for the requested entities
- Apply naming conventions (PascalCase entities, camelCase fields)
- Include sensible required/optional settings
- Add helpful descriptions

FIELD TYPES AVAILABLE:
String, Integer, Long, Boolean, Double, Float, LocalDate, LocalDateTime

BEST PRACTICES:
- IDs auto-generated (don't include)
- Names/titles usually required
- Descriptions usually optional
- Booleans should have clear defaults
- Use LocalDate for dates without time
- Use LocalDateTime for timestamps

Return ONLY valid JSON:
{
  "appName": "kebab-case-name",
  "description": "Brief description",
  "entities": [
    {
      "name": "EntityName",
      "description": "What it represents",
      "fields": [
        {"name": "fieldName", "type": "String", "required": true}
      ]
    }
  ]
}

NO markdown, NO explanations, ONLY JSON.`, input)
}

func firstQuestionPrompt(input string) string {
	return fmt.Sprintf(`You are a helpful assistant gathering application requirements.

USER SAID:
%s

TASK:
This input is incomplete. Ask ONE specific, helpful question to clarify.

Focus on:
- What entities are needed (if not clear)
- What the main purpose is (if too vague)
- Key features they want

Be conversational and helpful.
Return ONLY the question, no JSON, no explanation.`, input)
}

func continuePrompt(initialInput, transcript, latestAnswer string) string {
	return fmt.Sprintf(`You are gathering requirements for an application.

INITIAL REQUEST:
%s

CONVERSATION SO FAR:
%s

LATEST USER RESPONSE:
%s

TASK:
Decide if you have enough information to generate the app, or if you need more details.

If ENOUGH information:
Respond: {"status": "complete", "summary": "brief summary of what will be built"}

If NEED MORE:
Respond: {"status": "continue", "question": "your next question"}

Only ask about truly important details. Don't over-engineer.
Typical apps need: entities, key fields, basic relationships.

Return ONLY JSON.`, initialInput, transcript, latestAnswer)
}

func sessionExtractionPrompt(initialInput, transcript string) string {
	return fmt.Sprintf(`You are an expert software architect.

INITIAL REQUEST:
%s

CONVERSATION:
%s

TASK:
Based on this conversation, design the complete application.

Extract all entities, fields, types from the discussion.
Apply best practices for field types and requirements.

Return ONLY valid JSON:
{
  "appName": "kebab-case-name",
  "description": "Brief description",
  "entities": [
    {
      "name": "EntityName",
      "description": "What it represents",
      "fields": [
        {"name": "fieldName", "type": "String", "required": true}
      ]
    }
  ]
}

Field types: String, Integer, Long, Boolean, Double, Float, LocalDate, LocalDateTime
NO markdown, ONLY JSON.`, initialInput, transcript)
}

package ai

// ClassifyPrompt is the system prompt for segment classification. The first
// placeholder is the comma-separated category list.
const ClassifyPrompt = `
# Task Context
You are a document analyst for a strategic reasoning system. You will be given
one segment of a business document (typically a single page).

# Detailed Task Description & Rules
- Assign the segment exactly one category from this list: %s
- Choose the category that covers the dominant topic of the segment.
- Use "other" when no category clearly fits; never invent a new category.
- Report a confidence between 0.0 and 1.0 for your choice.

# Output Formatting
Return a JSON object with a "category" string and an optional "confidence"
number. No additional commentary.
`

// ExtractPrompt is the system prompt for fact extraction. Placeholders are
// the allowed entity-type list and the allowed relationship-type list.
const ExtractPrompt = `
# Task Context
You are an information-extraction assistant building a strategic knowledge
graph. You will be given one segment of a business document.

# Detailed Task Description & Rules
- Identify entities mentioned in the segment. Each entity has:
  * "type": one of: %s
  * "name": the surface form as written in the text
  * "properties": an optional object of additional attributes stated in the
    text (e.g. {"function": "fleet routing"})
- Identify relationships between the entities you extracted. Each has:
  * "from": the name of the source entity
  * "type": one of: %s
  * "to": the name of the target entity
- Only extract facts stated in the text. Do not infer entities or
  relationships that are not supported by the segment.
- Skip entities whose type is not in the list above.

# Output Formatting
Return a JSON object with "entities" and "relationships" arrays. Both arrays
may be empty. No additional commentary.
`

// IntentPrompt classifies a user question against the graph schema.
// Placeholders: node-type list, relationship-type list, intent list,
// and the question itself.
const IntentPrompt = `
# Task Context
You are an intent classifier for a strategic reasoning system. The system
stores facts in a knowledge graph with the following schema:
Node types: %s
Relationship types: %s

# Detailed Task Description & Rules
- Classify the user's question into exactly one intent from this list: %s
- Pick "general_inquiry" when no specific intent fits.
- Report a confidence between 0.0 and 1.0.

# Immediate Task Description or Request
Question: %s

# Output Formatting
Return a JSON object with an "intent" string and a "confidence" number.
`

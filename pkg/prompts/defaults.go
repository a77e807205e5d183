package prompts

// Defaults returns the built-in prompt set. Every template answers with
// strict JSON so the callers can decode without scraping prose.
func Defaults() *Prompts {
	return &Prompts{
		System: SystemPrompts{
			Script: "You are a scriptwriter for narrated stock-footage videos. " +
				"Write clear, engaging narration with short sentences. " +
				"Respond with a JSON object only, no markdown.",
			Translate: "You are a professional translator. Preserve tone and pacing. " +
				"Respond with the translated text only.",
			Queries: "You map narration captions to visual search phrases for stock footage. " +
				"Respond with a JSON array only, no markdown.",
			Metadata: "You write video titles and descriptions. " +
				"Respond with a JSON object only, no markdown.",
		},
		Template: TemplatePrompts{
			Script: `Write the narration script for a video about: {{.Description}}
The script language is {{.Language}}.
Answer with a JSON object of the form {"script": "..."} containing only the spoken narration.`,
			Translate: `Translate the following narration script into {{.Language}}.
Keep sentence boundaries so the narration timing survives translation.

{{.Script}}`,
			Queries: `For each timed caption below, produce exactly three visual search phrases for
stock footage, ordered from most specific to most generic. The phrases must be
short (1-3 words) and concrete enough for a stock video search.

Captions:
{{.Transcript}}

Answer with a JSON array where each element is [[start, end], ["specific", "broader", "generic"]],
one element per caption, with the same start and end times.`,
			Metadata: `Write a title and description for a video with this narration script:

{{.Script}}

Answer with a JSON object of the form {"title": "...", "description": "..."}.`,
		},
	}
}

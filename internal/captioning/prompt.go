package captioning

// buildCaptionPrompt creates the metadata generation prompt sent with every photo
func buildCaptionPrompt() string {
	return `You are a professional photo curator organizing a personal photo library. Analyze the attached photo and produce metadata for it.

INSTRUCTIONS:
1. Look carefully at the photo's subject, setting, lighting, and mood.
2. Produce the following fields:
   - title: a short, evocative title (2-6 words, no trailing punctuation)
   - caption: one or two sentences describing the photo in natural language
   - album: a broad grouping the photo belongs to, such as "Nature", "Family", "Travel", "Food", "Pets", or "City Life" (pick the single best fit; invent a sensible name if none fit)
   - tags: between 3 and 5 short lowercase keywords describing the content
3. Do not mention that you are an AI or describe the act of analyzing.
4. Do not invent people's names or places you cannot verify from the image.

OUTPUT FORMAT:
Respond with ONLY a JSON object in the following format:

{
  "title": "...",
  "caption": "...",
  "album": "...",
  "tags": ["...", "...", "..."]
}

All four fields are required. Respond with the JSON object and nothing else.`
}

package llm

import (
	"fmt"
	"strings"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// systemPrompt sets the house voice for every generation call. The JSON-only
// instruction is load-bearing: parsing rejects anything that is not a single
// JSON object.
const systemPrompt = `You are a senior content strategist at a B2B marketing agency.
Write in a direct, plainspoken voice: concrete claims, short sentences, no filler.
Never use marketing cliches ("game-changer", "cutting-edge", "synergy", "revolutionize", "delve into").
Long-form pieces use markdown "## " section headings and end with a short call to action
inviting the reader to talk to the agency.

Respond with a single JSON object and nothing else: no markdown code fences,
no commentary before or after the JSON.`

// promptSpec describes the JSON shape and editorial brief for one type.
type promptSpec struct {
	brief  string
	fields string
}

var promptSpecs = map[models.ContentType]promptSpec{
	models.TypeBlog: {
		brief: "Write a long-form blog article of 800-1200 words aimed at B2B marketing leaders.",
		fields: `"title": string, "summary": string (1-2 sentences), "tags": [string],
"body": string (markdown, at least 600 words, with "## " headings), "author": string`,
	},
	models.TypeFAQ: {
		brief: "Answer one frequently asked question from a B2B buyer in 60-150 words.",
		fields: `"title": string (the question, phrased naturally), "summary": string, "tags": [string],
"question": string, "answer": string`,
	},
	models.TypeGlossary: {
		brief: "Define one marketing term precisely for a practitioner audience.",
		fields: `"title": string (the term), "summary": string, "tags": [string],
"term": string, "definition": string (80-200 words)`,
	},
	models.TypeComparison: {
		brief: "Compare two approaches or vendor categories fairly, ending with a verdict.",
		fields: `"title": string, "summary": string, "tags": [string],
"subject_a": string, "subject_b": string, "body": string (markdown with "## " headings), "verdict": string`,
	},
	models.TypeExpertQA: {
		brief: "Write an interview-style question and a substantive expert answer.",
		fields: `"title": string, "summary": string, "tags": [string],
"question": string, "answer": string (at least 150 words), "expert": string (a plausible role, not a real name)`,
	},
	models.TypeNews: {
		brief: "Summarize one current development in B2B marketing as a short news item.",
		fields: `"title": string, "summary": string, "tags": [string],
"body": string (100-250 words), "source_url": string (may be empty)`,
	},
	models.TypeCaseStudy: {
		brief: "Tell an anonymized client story: the challenge, the approach, the measured results.",
		fields: `"title": string, "summary": string, "tags": [string],
"client": string (anonymized descriptor), "challenge": string, "approach": string (markdown with "## " headings), "results": string`,
	},
	models.TypeIndustryBrief: {
		brief: "Brief a buyer on how marketing works in one vertical industry.",
		fields: `"title": string, "summary": string, "tags": [string],
"industry": string, "body": string (markdown with "## " headings)`,
	},
	models.TypeVideo: {
		brief: "Write a script for a 2-3 minute explainer video.",
		fields: `"title": string, "summary": string, "tags": [string],
"script": string, "duration_sec": integer`,
	},
	models.TypeTool: {
		brief: "Describe an interactive calculator or assessment tool for the website.",
		fields: `"title": string, "summary": string, "tags": [string],
"description": string, "inputs_spec": string (the inputs the tool asks for)`,
	},
}

// BuildPrompt assembles the system and user prompts for a queue item.
func BuildPrompt(item *models.QueueItem) (string, string, error) {
	spec, ok := promptSpecs[item.ContentType]
	if !ok {
		return "", "", fmt.Errorf("no prompt defined for content type %q", item.ContentType)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nTopic: %s\n", spec.brief, item.Topic)
	if item.Cluster != "" {
		fmt.Fprintf(&b, "Topic cluster: %s\n", item.Cluster)
	}
	fmt.Fprintf(&b, "\nReturn a JSON object with exactly these fields:\n{%s}\n", spec.fields)

	return systemPrompt, b.String(), nil
}

package ingest

import (
	"fmt"
	"strings"

	"github.com/adbkb/adbkb/internal/knowledge"
)

// ChunkEntry flattens one structured knowledge entry to text and
// chunks it. Entries carry a type field (command, troubleshooting,
// documentation, error_pattern, code_pattern, ...); a missing type is
// inferred from the structure. Most entries produce a single chunk;
// only text longer than twice the chunk size is split.
func (c *Chunker) ChunkEntry(entry map[string]any) []Chunk {
	entryType := stringField(entry, "type")
	if entryType == "" {
		entryType = inferEntryType(entry)
	}

	var parts []string
	switch entryType {
	case knowledge.TypeCommand:
		parts = commandText(entry)
	case knowledge.TypeTroubleshooting:
		parts = troubleshootingText(entry)
	case knowledge.TypeDocumentation:
		parts = documentationText(entry)
	default:
		parts = genericText(entry)
	}

	fullText := strings.Join(parts, "\n\n")
	metadata := entryMetadata(entry, entryType)

	if len(fullText) > c.chunkSize*2 {
		return c.ChunkText(fullText, metadata)
	}
	return []Chunk{{Text: fullText, Metadata: metadata}}
}

func inferEntryType(entry map[string]any) string {
	switch {
	case entry["command"] != nil:
		return knowledge.TypeCommand
	case entry["issue"] != nil:
		return knowledge.TypeTroubleshooting
	case entry["url"] != nil:
		return knowledge.TypeDocumentation
	}
	return "unknown"
}

func entryMetadata(entry map[string]any, entryType string) map[string]string {
	metadata := map[string]string{
		"type":     entryType,
		"category": stringFieldDefault(entry, "category", "general"),
		"source":   stringFieldDefault(entry, "source", "unknown"),
		"tags":     strings.Join(stringSlice(entry, "tags"), ","),
	}

	switch entryType {
	case knowledge.TypeCommand:
		metadata["command"] = stringField(entry, "command")
	case knowledge.TypeTroubleshooting:
		metadata["issue"] = stringField(entry, "issue")
	case knowledge.TypeErrorPattern:
		metadata["error_indicator"] = stringField(entry, "error_indicator")
		metadata["severity"] = stringFieldDefault(entry, "severity", "medium")
	case knowledge.TypeCodePattern:
		metadata["operation"] = stringField(entry, "operation")
	}

	return metadata
}

func commandText(entry map[string]any) []string {
	var parts []string
	appendField(&parts, entry, "command", "Command")
	appendField(&parts, entry, "description", "Description")
	appendField(&parts, entry, "syntax", "Syntax")

	if params, ok := entry["parameters"].([]any); ok && len(params) > 0 {
		var b strings.Builder
		b.WriteString("Parameters:\n")
		for _, param := range params {
			switch p := param.(type) {
			case map[string]any:
				for key, val := range p {
					fmt.Fprintf(&b, "  %s: %v\n", key, val)
				}
			default:
				fmt.Fprintf(&b, "  %v\n", p)
			}
		}
		parts = append(parts, b.String())
	}

	if examples, ok := entry["examples"].([]any); ok && len(examples) > 0 {
		var b strings.Builder
		b.WriteString("Examples:\n")
		for _, example := range examples {
			if ex, ok := example.(map[string]any); ok {
				fmt.Fprintf(&b, "  %s: %s\n", stringField(ex, "command"), stringField(ex, "explanation"))
			}
		}
		parts = append(parts, b.String())
	}

	if issues, ok := entry["common_issues"].([]any); ok && len(issues) > 0 {
		var b strings.Builder
		b.WriteString("Common Issues:\n")
		for _, issue := range issues {
			fmt.Fprintf(&b, "  - %v\n", issue)
		}
		parts = append(parts, b.String())
	}

	return parts
}

func troubleshootingText(entry map[string]any) []string {
	var parts []string
	appendField(&parts, entry, "issue", "Issue")

	if symptoms, ok := entry["symptoms"].([]any); ok && len(symptoms) > 0 {
		var b strings.Builder
		b.WriteString("Symptoms:\n")
		for _, symptom := range symptoms {
			fmt.Fprintf(&b, "  - %v\n", symptom)
		}
		parts = append(parts, b.String())
	}

	if solutions, ok := entry["solutions"].([]any); ok && len(solutions) > 0 {
		var b strings.Builder
		b.WriteString("Solutions:\n")
		for _, solution := range solutions {
			if sol, ok := solution.(map[string]any); ok {
				fmt.Fprintf(&b, "  Step %v: %s\n", sol["step"], stringField(sol, "action"))
				if details := stringField(sol, "details"); details != "" {
					fmt.Fprintf(&b, "    Details: %s\n", details)
				}
			}
		}
		parts = append(parts, b.String())
	}

	return parts
}

// documentationText caps scraped page content at 5000 characters.
func documentationText(entry map[string]any) []string {
	var parts []string
	appendField(&parts, entry, "title", "Title")
	appendField(&parts, entry, "url", "URL")
	if content := stringField(entry, "content"); content != "" {
		if len(content) > 5000 {
			content = content[:5000]
		}
		parts = append(parts, "Content: "+content)
	}
	return parts
}

// genericText covers code_pattern, error_pattern, best_practice, and
// anything else: every known field that is present contributes a line.
func genericText(entry map[string]any) []string {
	var parts []string
	appendField(&parts, entry, "title", "Title")
	appendField(&parts, entry, "name", "Name")
	appendField(&parts, entry, "operation", "Operation")
	appendField(&parts, entry, "description", "Description")
	appendField(&parts, entry, "command", "Command")
	appendField(&parts, entry, "solution", "Solution")
	appendField(&parts, entry, "implementation", "Implementation")

	if code := stringField(entry, "code"); code != "" {
		parts = append(parts, "Code Example:\n"+code)
	}

	if steps, ok := entry["steps"].([]any); ok && len(steps) > 0 {
		var b strings.Builder
		b.WriteString("Steps:\n")
		for i, step := range steps {
			switch s := step.(type) {
			case string:
				fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
			case map[string]any:
				number := s["step"]
				if number == nil {
					number = i + 1
				}
				fmt.Fprintf(&b, "  %v. %s\n", number, stringField(s, "action"))
			}
		}
		parts = append(parts, b.String())
	}

	return parts
}

func appendField(parts *[]string, entry map[string]any, key, label string) {
	if v := stringField(entry, key); v != "" {
		*parts = append(*parts, label+": "+v)
	}
}

func stringField(entry map[string]any, key string) string {
	if v, ok := entry[key].(string); ok {
		return v
	}
	return ""
}

func stringFieldDefault(entry map[string]any, key, fallback string) string {
	if v := stringField(entry, key); v != "" {
		return v
	}
	return fallback
}

func stringSlice(entry map[string]any, key string) []string {
	raw, ok := entry[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

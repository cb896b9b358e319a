package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
)

// catalogEntry is the machine-readable shape of one action, exported by
// GetActionLibraryForAI for the external NL front-end. Consumers must
// refuse to generate protocols referencing actions not in this catalog.
type catalogEntry struct {
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Required    []catalogParam   `json:"required"`
	Optional    []catalogParam   `json:"optional"`
	Returns     string           `json:"returns,omitempty"`
	Examples    []map[string]any `json:"examples,omitempty"`
}

type catalogParam struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

func toCatalogParams(specs []ParamSpec) []catalogParam {
	out := make([]catalogParam, 0, len(specs))
	for _, p := range specs {
		out = append(out, catalogParam{
			Name:        p.Name,
			Kind:        string(p.Kind),
			Description: p.Description,
			Default:     p.Default,
		})
	}
	return out
}

// GetActionLibraryForAI returns a JSON document cataloging every
// registered action: category, description, required/optional params,
// and example calls, for consumption by the external NL front-end. The
// document is pretty-printed with tidwall/pretty, matching how
// GenerateDocumentation formats its example JSON blocks.
func (r *Registry) GetActionLibraryForAI() ([]byte, error) {
	specs := r.List("")
	entries := make([]catalogEntry, 0, len(specs))
	for _, spec := range specs {
		examples := make([]map[string]any, 0, len(spec.Examples))
		for _, ex := range spec.Examples {
			examples = append(examples, map[string]any{
				"description": ex.Description,
				"params":      ex.Params,
			})
		}
		entries = append(entries, catalogEntry{
			Name:        spec.Name,
			Category:    spec.Category,
			Description: spec.Description,
			Required:    toCatalogParams(spec.Required),
			Optional:    toCatalogParams(spec.Optional),
			Returns:     spec.Returns,
			Examples:    examples,
		})
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("registry: marshal action library: %w", err)
	}
	return pretty.Pretty(raw), nil
}

// GenerateDocumentation renders a Markdown catalog of every action in
// category (or all categories if empty): one section per category, one
// subsection per action, with a param table and pretty-printed example
// calls.
func (r *Registry) GenerateDocumentation(category string) (string, error) {
	specs := r.List(category)

	byCategory := make(map[string][]ActionSpec)
	var order []string
	for _, spec := range specs {
		if _, seen := byCategory[spec.Category]; !seen {
			order = append(order, spec.Category)
		}
		byCategory[spec.Category] = append(byCategory[spec.Category], spec)
	}

	var b strings.Builder
	b.WriteString("# Action Library\n\n")
	for _, cat := range order {
		fmt.Fprintf(&b, "## %s\n\n", cat)
		for _, spec := range byCategory[cat] {
			fmt.Fprintf(&b, "### `%s`\n\n%s\n\n", spec.Name, spec.Description)
			if len(spec.Required) > 0 || len(spec.Optional) > 0 {
				b.WriteString("| Param | Kind | Required | Description |\n")
				b.WriteString("|---|---|---|---|\n")
				for _, p := range spec.Required {
					fmt.Fprintf(&b, "| %s | %s | yes | %s |\n", p.Name, p.Kind, p.Description)
				}
				for _, p := range spec.Optional {
					fmt.Fprintf(&b, "| %s | %s | no | %s |\n", p.Name, p.Kind, p.Description)
				}
				b.WriteString("\n")
			}
			for _, ex := range spec.Examples {
				raw, err := json.Marshal(ex.Params)
				if err != nil {
					return "", fmt.Errorf("registry: marshal example for %s: %w", spec.Name, err)
				}
				b.WriteString(ex.Description)
				b.WriteString("\n\n```json\n")
				b.Write(pretty.Pretty(raw))
				b.WriteString("```\n\n")
			}
		}
	}
	return b.String(), nil
}

package gemini

import (
	"trendscope/internal/core/query"

	"google.golang.org/genai"
)

var typeMap = map[query.Type]genai.Type{
	query.TypeObject:  genai.TypeObject,
	query.TypeArray:   genai.TypeArray,
	query.TypeString:  genai.TypeString,
	query.TypeInteger: genai.TypeInteger,
	query.TypeNumber:  genai.TypeNumber,
}

// toSchema converts the reply contract into the SDK schema, recursively
func toSchema(s *query.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             typeMap[s.Type],
		Description:      s.Description,
		Items:            toSchema(s.Items),
		Required:         append([]string(nil), s.Required...),
		PropertyOrdering: append([]string(nil), s.Order...),
	}
	if out.Type == "" {
		out.Type = genai.TypeUnspecified
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toSchema(v)
		}
	}
	return out
}

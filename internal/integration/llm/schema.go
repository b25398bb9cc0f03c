package llm

import (
	"encoding/json"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/google/generative-ai-go/genai"
	"github.com/invopop/jsonschema"
)

const (
	fieldTitles     = "titles"
	fieldKeywordsCn = "keywordsCn"
	fieldKeywordsEn = "keywordsEn"
	fieldTitle      = "title"
	fieldReasoning  = "reasoning"

	schemaName = "title_generation_result"
)

// geminiResponseSchema describes GenerationResult for Gemini structured output.
func geminiResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			fieldTitles: {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						fieldTitle:     {Type: genai.TypeString, Description: "生成的中文标题"},
						fieldReasoning: {Type: genai.TypeString, Description: "推荐理由"},
					},
					Required: []string{fieldTitle, fieldReasoning},
				},
			},
			fieldKeywordsCn: {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "10个中文关键词",
			},
			fieldKeywordsEn: {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "10个英文关键词",
			},
		},
		Required: []string{fieldTitles, fieldKeywordsCn, fieldKeywordsEn},
	}
}

// openAIResponseSchema reflects GenerationResult into a strict JSON schema
// for OpenAI-compatible response_format.
func openAIResponseSchema() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&entity.GenerationResult{})
	schema.Version = ""
	schema.ID = ""

	raw, err := json.Marshal(schema)
	if err != nil {
		panic("marshal response schema: " + err.Error())
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic("unmarshal response schema: " + err.Error())
	}
	return out
}

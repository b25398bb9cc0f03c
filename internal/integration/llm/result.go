package llm

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/futig/title-assistant/internal/entity"
)

// ParseResult normalizes the raw text returned by the service. Invalid JSON
// or a non-object payload yields an empty result. A field that is missing
// or not an array becomes empty. Elements that do not decode into the
// element type are dropped and the rest are kept in order.
// Shape mismatches are not errors.
func ParseResult(raw string) *entity.GenerationResult {
	result := entity.EmptyGenerationResult()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return result
	}

	result.Titles = decodeArray[entity.GeneratedTitle](fields[fieldTitles])
	result.KeywordsCn = decodeArray[string](fields[fieldKeywordsCn])
	result.KeywordsEn = decodeArray[string](fields[fieldKeywordsEn])

	return result
}

// decodeArray returns the elements of msg that decode into T. It returns an
// empty slice when msg is not a JSON array. null elements are skipped.
func decodeArray[T any](msg json.RawMessage) []T {
	items := []T{}

	var elems []json.RawMessage
	if err := json.Unmarshal(msg, &elems); err != nil {
		return items
	}

	for _, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			continue
		}
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			continue
		}
		items = append(items, item)
	}

	return items
}

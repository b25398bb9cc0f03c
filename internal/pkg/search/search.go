package search

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/futig/title-assistant/internal/entity"
)

var templates = map[entity.SearchProvider]string{
	entity.SearchProviderGoogle:  "https://www.google.com/search?tbm=isch&q=%s",
	entity.SearchProviderPixabay: "https://pixabay.com/images/search/%s/",
	entity.SearchProviderVCG:     "https://www.vcg.com/creative/search?phrase=%s",
}

// BuildURL joins keywords with single spaces and substitutes the
// percent-encoded query into the provider's search template.
func BuildURL(provider entity.SearchProvider, keywords []string) (string, error) {
	tmpl, ok := templates[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrUnknownProvider, provider)
	}

	if len(keywords) == 0 {
		return "", entity.ErrEmptySelection
	}

	return fmt.Sprintf(tmpl, EncodeQuery(strings.Join(keywords, " "))), nil
}

// componentUnescaper restores the characters encodeURIComponent leaves as is.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeQuery percent-encodes s the way encodeURIComponent does, so the
// result is valid both in a query value and in a path segment.
func EncodeQuery(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

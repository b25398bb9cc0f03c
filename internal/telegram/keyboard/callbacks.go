package keyboard

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback actions
const (
	ActionGeneral  = "action"
	ActionPurpose  = "purpose"
	ActionKeyword  = "kw"
	ActionDownload = "dl"
)

// General action values
const (
	ValueStart      = "start"
	ValueSkip       = "skip"
	ValueRegenerate = "regen"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string // "action", "purpose", "kw", "dl"
	Value  string // The parameter
}

// Index returns the value as a non-negative list index
func (c *CallbackData) Index() (int, error) {
	i, err := strconv.Atoi(c.Value)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid index in callback: %s", c.Value)
	}
	return i, nil
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}

// EncodeIndex creates callback data pointing at a list position.
// Telegram limits callback data to 64 bytes, so keywords travel by index.
func EncodeIndex(action string, i int) string {
	return EncodeCallback(action, strconv.Itoa(i))
}

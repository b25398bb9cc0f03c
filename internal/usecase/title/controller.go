package title

import (
	"context"
	"sync"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/pkg/search"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Controller owns the TitleState of one session. Transitions are serialized
// by mu; the generative call itself runs outside the lock.
type Controller struct {
	mu        sync.Mutex
	state     entity.TitleState
	inFlight  bool
	generator Generator
}

func NewController(generator Generator) *Controller {
	return &Controller{
		state:     entity.NewTitleState(),
		generator: generator,
	}
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() entity.TitleState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Clone()
}

// Begin validates the input and enters Generating. Blank input returns
// ErrBlankInput with the state untouched; a running generation returns
// ErrGenerationInProgress.
func (c *Controller) Begin(in entity.TitleInput) error {
	if in.IsBlank() {
		return entity.ErrBlankInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status == entity.TitleStatusGenerating {
		return entity.ErrGenerationInProgress
	}

	c.state.Content = in.Content
	c.state.Purpose = in.Purpose
	c.state.AdditionalRequirements = in.AdditionalRequirements
	c.state.Results = []entity.GeneratedTitle{}
	c.state.KeywordsCn = []string{}
	c.state.KeywordsEn = []string{}
	c.state.SelectedKeywords = []string{}
	c.state.Error = nil
	c.state.Status = entity.TitleStatusGenerating
	c.state.IsGenerating = true

	return nil
}

// BeginRegenerate is Begin with the stored inputs.
func (c *Controller) BeginRegenerate() error {
	return c.Begin(c.Snapshot().Input())
}

// Run performs the generation started by Begin and applies its outcome.
// It returns the resulting state. Calling Run outside Generating, or while
// another Run is in flight, returns the current state without a call.
func (c *Controller) Run(ctx context.Context) entity.TitleState {
	c.mu.Lock()
	if c.state.Status != entity.TitleStatusGenerating || c.inFlight {
		defer c.mu.Unlock()
		return c.state.Clone()
	}
	c.inFlight = true
	in := c.state.Input()
	c.mu.Unlock()

	result, err := c.generator.Generate(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	c.state.IsGenerating = false

	if err != nil {
		ctxzap.Warn(ctx, "title generation failed", zap.Error(err))

		msg := entity.UserMessage(err)
		c.state.Status = entity.TitleStatusFailed
		c.state.Error = &msg
		return c.state.Clone()
	}

	if result == nil {
		result = entity.EmptyGenerationResult()
	}

	c.state.Status = entity.TitleStatusSucceeded
	c.state.Results = append([]entity.GeneratedTitle{}, result.Titles...)
	c.state.KeywordsCn = append([]string{}, result.KeywordsCn...)
	c.state.KeywordsEn = append([]string{}, result.KeywordsEn...)

	return c.state.Clone()
}

// Submit runs Begin and Run in one call.
func (c *Controller) Submit(ctx context.Context, in entity.TitleInput) (entity.TitleState, error) {
	if err := c.Begin(in); err != nil {
		return c.Snapshot(), err
	}
	return c.Run(ctx), nil
}

// Regenerate resubmits the stored inputs.
func (c *Controller) Regenerate(ctx context.Context) (entity.TitleState, error) {
	return c.Submit(ctx, c.Snapshot().Input())
}

// ToggleKeyword removes keyword from the selection when present and
// appends it otherwise. Allowed in every state.
func (c *Controller) ToggleKeyword(keyword string) entity.TitleState {
	c.mu.Lock()
	defer c.mu.Unlock()

	selected := make([]string, 0, len(c.state.SelectedKeywords)+1)
	found := false
	for _, k := range c.state.SelectedKeywords {
		if k == keyword {
			found = true
			continue
		}
		selected = append(selected, k)
	}
	if !found {
		selected = append(selected, keyword)
	}
	c.state.SelectedKeywords = selected

	return c.state.Clone()
}

// SearchURL builds the provider search URL for the current selection.
func (c *Controller) SearchURL(provider entity.SearchProvider) (string, error) {
	c.mu.Lock()
	selected := append([]string{}, c.state.SelectedKeywords...)
	c.mu.Unlock()

	return search.BuildURL(provider, selected)
}

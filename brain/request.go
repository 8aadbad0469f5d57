package brain

// RequestBuilder assembles an InteractionRequest fluently. Store defaults
// to false (privacy-first) as in the original interaction builder.
type RequestBuilder struct {
	req InteractionRequest
}

// NewRequestBuilder starts a builder targeting model, with the given input.
func NewRequestBuilder(model string, input WireInput) *RequestBuilder {
	store := false
	return &RequestBuilder{req: InteractionRequest{
		Model: &model,
		Input: input,
		Store: &store,
	}}
}

// Model sets the target model and clears Agent (mutually exclusive).
func (b *RequestBuilder) Model(model string) *RequestBuilder {
	b.req.Model = &model
	b.req.Agent = nil
	return b
}

// Agent sets the target agent and clears Model (mutually exclusive).
func (b *RequestBuilder) Agent(agent string) *RequestBuilder {
	b.req.Agent = &agent
	b.req.Model = nil
	return b
}

func (b *RequestBuilder) CachedContent(name string) *RequestBuilder {
	b.req.CachedContent = &name
	return b
}

func (b *RequestBuilder) SystemInstruction(parts []WirePart) *RequestBuilder {
	b.req.SystemInstruction = parts
	return b
}

func (b *RequestBuilder) PreviousInteractionID(id string) *RequestBuilder {
	if id == "" {
		return b
	}
	b.req.PreviousInteractionID = &id
	return b
}

func (b *RequestBuilder) Tools(tools []WireTool) *RequestBuilder {
	if len(tools) == 0 {
		return b
	}
	b.req.Tools = tools
	return b
}

func (b *RequestBuilder) ToolChoice(choice ToolChoice) *RequestBuilder {
	b.req.ToolChoice = &choice
	return b
}

func (b *RequestBuilder) GenerationConfig(cfg GenerationConfig) *RequestBuilder {
	b.req.GenerationConfig = &cfg
	return b
}

// ThinkingLevel sets generation_config.thinking_level, creating the config
// if the builder doesn't have one yet.
func (b *RequestBuilder) ThinkingLevel(level ThinkingLevel) *RequestBuilder {
	cfg := b.req.GenerationConfig
	if cfg == nil {
		cfg = &GenerationConfig{}
	}
	cfg.ThinkingLevel = &level
	b.req.GenerationConfig = cfg
	return b
}

func (b *RequestBuilder) SafetySettings(settings []SafetySetting) *RequestBuilder {
	b.req.SafetySettings = settings
	return b
}

func (b *RequestBuilder) Store(store bool) *RequestBuilder {
	b.req.Store = &store
	return b
}

func (b *RequestBuilder) Background(background bool) *RequestBuilder {
	b.req.Background = &background
	return b
}

// Build finalizes the non-streaming request.
func (b *RequestBuilder) Build() InteractionRequest {
	return b.req
}

// BuildStream finalizes the request with stream set to true.
func (b *RequestBuilder) BuildStream() InteractionRequest {
	stream := true
	b.req.Stream = &stream
	return b.req
}

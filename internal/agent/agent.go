package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m2tx/contentkit/content"
	"github.com/m2tx/contentkit/internal/model"
	"github.com/m2tx/contentkit/internal/repository"
	"github.com/m2tx/contentkit/requestopts"
	"google.golang.org/genai"
)

// maxFunctionRounds bounds how many times one Send answers function calls
// before giving up on the model.
const maxFunctionRounds = 10

// ErrPromptRole is returned by Send when the prompt is not a user turn.
var ErrPromptRole = errors.New(`agent: prompt: role must be "user"`)

type Config struct {
	Model             string
	SystemInstruction string
	// Tools is anything content.ToFunctionLibrary accepts. nil offers no
	// tools.
	Tools          any
	RequestOptions requestopts.Options
	Repository     repository.SessionRepository
	Converter      *content.Converter
	Logger         *slog.Logger
}

type Agent struct {
	model             string
	systemInstruction *genai.Content
	library           *content.FunctionLibrary
	requestOptions    requestopts.Options
	sessionRepository repository.SessionRepository
	converter         *content.Converter
	logger            *slog.Logger
	newChat           chatFactory
}

// chatSession is the part of *genai.Chat the agent drives.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	History(curated bool) []*genai.Content
}

type chatFactory func(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)

func New(client *genai.Client, cfg Config) (*Agent, error) {
	if client == nil {
		return nil, fmt.Errorf("agent: client cannot be nil")
	}
	return newAgent(func(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
		return client.Chats.Create(ctx, model, config, history)
	}, cfg)
}

func newAgent(newChat chatFactory, cfg Config) (*Agent, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("agent: model cannot be empty")
	}

	library, err := content.ToFunctionLibrary(cfg.Tools)
	if err != nil {
		return nil, fmt.Errorf("agent: tools: %w", err)
	}

	a := &Agent{
		model:             cfg.Model,
		library:           library,
		requestOptions:    cfg.RequestOptions,
		sessionRepository: cfg.Repository,
		converter:         cfg.Converter,
		logger:            cfg.Logger,
		newChat:           newChat,
	}
	if cfg.SystemInstruction != "" {
		a.systemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	if a.converter == nil {
		a.converter = content.NewConverter()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a, nil
}

// Tools returns the tool declarations sent with every request.
func (a *Agent) Tools() []*genai.Tool {
	if a.library == nil {
		return nil
	}
	return a.library.ToProto()
}

func (a *Agent) getChat(ctx context.Context, sessionID string) (chatSession, error) {
	initialHistory := []*genai.Content{}
	if a.sessionRepository != nil {
		stored, err := a.sessionRepository.Load(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("agent: load history: %w", err)
		}
		if stored != nil {
			initialHistory = model.ToGenAI(stored)
		}
	}

	return a.newChat(ctx, a.model, &genai.GenerateContentConfig{
		HTTPOptions:       a.requestOptions.HTTPOptions(),
		SystemInstruction: a.systemInstruction,
		Tools:             a.Tools(),
	}, initialHistory)
}

// Send delivers prompt to the session's chat and returns every content the
// model produced, including answered function calls. prompt may be anything
// content.ToContent accepts: text, images, PDFs, part mappings or a whole
// content mapping.
func (a *Agent) Send(ctx context.Context, sessionID string, prompt any) ([]model.Content, error) {
	turn, err := a.converter.ToContent(prompt)
	if err != nil {
		return nil, fmt.Errorf("agent: prompt: %w", err)
	}
	if turn.Role != "" && turn.Role != genai.RoleUser {
		return nil, fmt.Errorf("%w, got %q", ErrPromptRole, turn.Role)
	}

	chat, err := a.getChat(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := a.send(ctx, chat, valueParts(turn.Parts))
	if err != nil {
		return nil, err
	}

	contents, err := a.processResponse(ctx, chat, resp)
	if err != nil {
		return nil, err
	}

	if a.sessionRepository != nil {
		if saveErr := a.sessionRepository.Save(ctx, sessionID, model.FromGenAI(chat.History(true))); saveErr != nil {
			a.logger.Warn("agent: failed to save session", "session_id", sessionID, "error", saveErr)
		}
	}

	return model.FromGenAI(contents), nil
}

func (a *Agent) ClearSession(ctx context.Context, sessionID string) {
	if a.sessionRepository != nil {
		if err := a.sessionRepository.Delete(ctx, sessionID); err != nil {
			a.logger.Warn("agent: failed to delete session", "session_id", sessionID, "error", err)
		}
	}
}

func (a *Agent) GetSession(ctx context.Context, sessionID string) ([]model.Content, error) {
	if a.sessionRepository == nil {
		return []model.Content{}, nil
	}

	stored, err := a.sessionRepository.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("agent: get session: %w", err)
	}

	if stored == nil {
		return []model.Content{}, nil
	}

	return stored, nil
}

func (a *Agent) send(ctx context.Context, chat chatSession, parts []genai.Part) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	err := a.requestOptions.Do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = chat.SendMessage(ctx, parts...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("agent: send: %w", err)
	}
	return resp, nil
}

func (a *Agent) handleFunctionCall(ctx context.Context, fc *genai.FunctionCall) (*genai.Part, error) {
	if a.library == nil {
		return nil, &content.LookupError{Name: fc.Name}
	}

	logger := a.logger.With("function", fc.Name, "call_id", fc.ID)
	part, err := a.library.Call(ctx, fc)
	if err != nil {
		var lookupErr *content.LookupError
		if errors.As(err, &lookupErr) {
			logger.Error("agent: function not callable", "declared", lookupErr.Declared)
		}
		return nil, err
	}
	logger.Debug("agent: function called")
	return part, nil
}

func (a *Agent) processResponse(ctx context.Context, chat chatSession, resp *genai.GenerateContentResponse) ([]*genai.Content, error) {
	contents := []*genai.Content{}

	for round := 0; ; round++ {
		functionResponses := []genai.Part{}

		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}

			for _, part := range candidate.Content.Parts {
				if part == nil || part.FunctionCall == nil {
					continue
				}
				funcResp, err := a.handleFunctionCall(ctx, part.FunctionCall)
				if err != nil {
					return nil, err
				}
				functionResponses = append(functionResponses, *funcResp)
			}

			contents = append(contents, candidate.Content)
		}

		if len(functionResponses) == 0 {
			return contents, nil
		}
		if round >= maxFunctionRounds {
			return nil, fmt.Errorf("agent: model kept calling functions after %d rounds", maxFunctionRounds)
		}

		var err error
		resp, err = a.send(ctx, chat, functionResponses)
		if err != nil {
			return nil, err
		}
	}
}

func valueParts(parts []*genai.Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

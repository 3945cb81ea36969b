package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/recruit-proxy/internal/proxy"
)

// CVPrompt is the validated cv-assistant payload
type CVPrompt struct {
	Prompt string
}

// JobBrief is the validated jd-assistant payload
type JobBrief struct {
	Title   string
	Details string
}

var (
	cvPromptField = proxy.StringField{
		Name:      "prompt",
		MinLength: MinCVPromptLength,
		Message:   fmt.Sprintf("CV prompt content is missing or too short. Minimum %d characters required.", MinCVPromptLength),
	}
	jobTitleField = proxy.StringField{
		Name:    "title",
		Message: "Job title is missing.",
	}
	jobDetailsField = proxy.StringField{
		Name:    "details",
		Message: "Job key details are missing.",
	}
)

// CVAssistant analyses CV text and returns recruiter feedback
type CVAssistant struct {
	assistant
}

// NewCVAssistant creates the cv-assistant integration
func NewCVAssistant(cfg Config, logger *slog.Logger) *CVAssistant {
	return &CVAssistant{assistant: newAssistant(cfg, logger)}
}

func (a *CVAssistant) Name() string {
	return "cv-assistant"
}

func (a *CVAssistant) Validate(body []byte) (any, error) {
	obj, err := proxy.DecodeObject(body)
	if err != nil {
		return nil, err
	}

	prompt, err := cvPromptField.Extract(obj)
	if err != nil {
		return nil, err
	}

	return CVPrompt{Prompt: prompt}, nil
}

func (a *CVAssistant) Build(_ context.Context, payload any) (*proxy.UpstreamRequest, error) {
	p, ok := payload.(CVPrompt)
	if !ok {
		return nil, fmt.Errorf("cv-assistant: unexpected payload %T", payload)
	}
	return a.request(cvPersona, fmt.Sprintf(cvMessageFormat, p.Prompt))
}

// JDAssistant drafts a job description from a title and key details
type JDAssistant struct {
	assistant
}

// NewJDAssistant creates the jd-assistant integration
func NewJDAssistant(cfg Config, logger *slog.Logger) *JDAssistant {
	return &JDAssistant{assistant: newAssistant(cfg, logger)}
}

func (a *JDAssistant) Name() string {
	return "jd-assistant"
}

func (a *JDAssistant) Validate(body []byte) (any, error) {
	obj, err := proxy.DecodeObject(body)
	if err != nil {
		return nil, err
	}

	title, err := jobTitleField.Extract(obj)
	if err != nil {
		return nil, err
	}

	details, err := jobDetailsField.Extract(obj)
	if err != nil {
		return nil, err
	}

	return JobBrief{Title: title, Details: details}, nil
}

func (a *JDAssistant) Build(_ context.Context, payload any) (*proxy.UpstreamRequest, error) {
	b, ok := payload.(JobBrief)
	if !ok {
		return nil, fmt.Errorf("jd-assistant: unexpected payload %T", payload)
	}
	return a.request(jdPersona, fmt.Sprintf(jdMessageFormat, b.Title, b.Details))
}

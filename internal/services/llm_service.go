package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/logging"
)

// MaxExtractionInput is the number of characters of a posting sent to the
// model.
const MaxExtractionInput = 20000

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Senior Backend Engineer)",
    "company": "Name of the company (e.g., Google, StartupInc)",
    "location": "Job location or 'Remote'",
    "salary": "The salary string if explicitly mentioned (e.g., '$100k - $150k'), otherwise null",
    "notes": "A short plain-text summary of responsibilities, requirements and tech stack"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// JobDraft is a job pre-filled from a posting. Clients review it and submit
// it through the regular create call.
type JobDraft struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	Salary   string `json:"salary,omitempty"`
	Notes    string `json:"notes,omitempty"`
	JobURL   string `json:"jobUrl,omitempty"`
}

type LLMService struct {
	client llms.Model
	log    logging.Logger
}

// NewLLMService builds the Gemini client. An empty apiKey yields a service
// whose calls fail with an unavailable error.
func NewLLMService(ctx context.Context, apiKey, model string, log logging.Logger) (*LLMService, error) {
	if log == nil {
		log = logging.Nop()
	}
	if apiKey == "" {
		log.Warn(ctx, "GEMINI_API_KEY is empty, job extraction disabled")
		return &LLMService{log: log}, nil
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewLLMServiceWithModel(client, log), nil
}

func NewLLMServiceWithModel(client llms.Model, log logging.Logger) *LLMService {
	if log == nil {
		log = logging.Nop()
	}
	return &LLMService{client: client, log: log}
}

func (s *LLMService) Enabled() bool {
	return s.client != nil
}

// ExtractJobDraft asks the model to pull the job fields out of a raw
// posting. sourceURL, when given, is copied onto the draft.
func (s *LLMService) ExtractJobDraft(ctx context.Context, rawText, sourceURL string) (*JobDraft, error) {
	if !s.Enabled() {
		return nil, apperrors.Unavailable("job extraction is not configured", nil)
	}
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, apperrors.InvalidInput("Posting content is required", nil)
	}

	prompt := fmt.Sprintf(jobExtractionPrompt, truncateRunes(rawText, MaxExtractionInput))
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.client, prompt, llms.WithTemperature(0))
	if err != nil {
		s.log.Error(ctx, "job extraction failed", "error", err)
		return nil, apperrors.Unavailable("job extraction failed", err)
	}

	draft, err := parseDraft(resp)
	if err != nil {
		s.log.Warn(ctx, "model returned malformed draft", "error", err)
		return nil, apperrors.Internal("could not read the extracted job", err)
	}
	if sourceURL = strings.TrimSpace(sourceURL); sourceURL != "" {
		draft.JobURL = sourceURL
	}
	return draft, nil
}

// parseDraft reads the model answer, tolerating a markdown fence around the
// JSON and nulls for missing fields.
func parseDraft(resp string) (*JobDraft, error) {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")

	var raw struct {
		Title    *string `json:"title"`
		Company  *string `json:"company"`
		Location *string `json:"location"`
		Salary   *string `json:"salary"`
		Notes    *string `json:"notes"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp)), &raw); err != nil {
		return nil, err
	}

	str := func(p *string, max int) string {
		if p == nil {
			return ""
		}
		return truncateRunes(strings.TrimSpace(*p), max)
	}
	return &JobDraft{
		Title:    str(raw.Title, 100),
		Company:  str(raw.Company, 100),
		Location: str(raw.Location, 100),
		Salary:   str(raw.Salary, 50),
		Notes:    str(raw.Notes, 1000),
	}, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	config "github.com/flowpilotuk-hash/flowpilot/configs"
	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
	"github.com/flowpilotuk-hash/flowpilot/pkg/planutil"
)

// Any post that mentions a promotion must be flagged for human approval;
// the resolver refuses to release such posts without an approved record,
// so the instruction and the gate act together.
const plannerSystemInstruction = `You are a social media planner for a hair and beauty salon.
Produce a posting plan as a single JSON object, following the provided schema exactly.
Dates use YYYY-MM-DD, times use 24-hour HH:MM local time.
Platforms are instagram or facebook; formats are post, reel or story; source is priority or scheduled.
If a post references a promotion, discount, limited-time offer, loyalty scheme, giveaway or price reduction, you MUST set approvalRequired to true and explain why in approvalReason.
All other posts set approvalRequired to false and approvalReason to an empty string.`

const planHorizonDays = 7

type generateFunc func(ctx context.Context, model, systemText, userText string, schema *genai.Schema) (*genai.GenerateContentResponse, error)

type PlanGeneratorService interface {
	Generate(ctx context.Context, userID int64) (*models.PlanRecord, error)
}

type planGeneratorService struct {
	cfg      config.Config
	pr       repository.PlanRepository
	sp       repository.ProfileRepository
	generate generateFunc
}

func NewPlanGeneratorService(cfg config.Config, pr repository.PlanRepository, sp repository.ProfileRepository) PlanGeneratorService {
	return &planGeneratorService{
		cfg:      cfg,
		pr:       pr,
		sp:       sp,
		generate: geminiGenerate(cfg),
	}
}

// Generate issues one structured-generation request, extracts and
// validates a plan from the response, and appends it as the user's new
// latest plan.
func (s *planGeneratorService) Generate(ctx context.Context, userID int64) (*models.PlanRecord, error) {
	profile, _, err := s.sp.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	start := today.Format("2006-01-02")
	end := today.AddDate(0, 0, planHorizonDays-1).Format("2006-01-02")

	userText := buildPlannerPrompt(profile, start, end)

	resp, err := s.generate(ctx, s.cfg.GeminiModel, plannerSystemInstruction, userText, planResponseSchema())
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			slog.Info(err.Error())
			return nil, apperror.UpstreamError{Status: apiErr.Code, Message: apiErr.Message}
		}
		slog.Info(err.Error())
		return nil, apperror.UpstreamError{Message: err.Error()}
	}

	plan, err := extractPlan(resp)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}

	rec := &models.PlanRecord{
		UserID:      userID,
		Payload:     payload,
		Model:       s.cfg.GeminiModel,
		GeneratedAt: time.Now(),
	}

	id, err := s.pr.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	return rec, nil
}

func buildPlannerPrompt(profile *models.SalonProfile, start, end string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a posting plan from %s to %s with horizonStartDate=%s and horizonEndDate=%s, one day entry per calendar day.\n", start, end, start, end)
	if profile != nil {
		if profile.SalonName != "" {
			fmt.Fprintf(&b, "Salon: %s", profile.SalonName)
			if profile.City != "" {
				fmt.Fprintf(&b, " (%s)", profile.City)
			}
			b.WriteString("\n")
		}
		if profile.BrandVoice != "" {
			fmt.Fprintf(&b, "Brand voice: %s\n", profile.BrandVoice)
		}
		if profile.ServicesText != "" {
			fmt.Fprintf(&b, "Services offered: %s\n", profile.ServicesText)
		}
		if profile.InstagramHandle != "" {
			fmt.Fprintf(&b, "Instagram handle: %s\n", profile.InstagramHandle)
		}
	}
	b.WriteString("Plan one or two posts per day across instagram and facebook.")
	return b.String()
}

func geminiGenerate(cfg config.Config) generateFunc {
	return func(ctx context.Context, model, systemText, userText string, schema *genai.Schema) (*genai.GenerateContentResponse, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}

		genConfig := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemText, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    schema,
		}

		contents := []*genai.Content{
			{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: userText}},
			},
		}

		return client.Models.GenerateContent(ctx, model, contents, genConfig)
	}
}

// extractPlan tries the known response shapes in a fixed priority order:
// the joined response text, then each candidate part on its own. Every
// candidate is tried raw, fence-stripped and unwrapped from alternate
// field names; the first form that parses and validates wins. The raw
// payload is logged for diagnostics but never returned to the caller.
func extractPlan(resp *genai.GenerateContentResponse) (*models.Plan, error) {
	if resp == nil {
		return nil, apperror.ExtractionError("empty response from generation service")
	}

	var candidates [][]byte
	if t := resp.Text(); strings.TrimSpace(t) != "" {
		candidates = append(candidates, []byte(t))
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && strings.TrimSpace(part.Text) != "" {
				candidates = append(candidates, []byte(part.Text))
			}
		}
	}

	for _, c := range candidates {
		for _, form := range candidateForms(c) {
			plan, err := planutil.ValidatePlan(form)
			if err == nil {
				return plan, nil
			}
		}
	}

	raw, _ := json.Marshal(resp)
	slog.Error("no response shape yielded a valid plan", "raw", truncateForLog(raw))
	return nil, apperror.ExtractionError("generation response did not contain a valid plan")
}

// candidateForms expands one candidate into the variants worth parsing:
// as-is, with markdown code fences stripped, and unwrapped from common
// envelope fields ({"plan": ...}, {"json": ...}, {"output": ...},
// {"response": ...}) whose value may be pre-parsed JSON or serialized
// JSON text.
func candidateForms(c []byte) [][]byte {
	forms := [][]byte{bytes.TrimSpace(c)}

	if stripped := stripCodeFences(c); !bytes.Equal(stripped, forms[0]) {
		forms = append(forms, stripped)
	}

	for _, base := range [][]byte{forms[0], stripCodeFences(c)} {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(base, &envelope); err != nil {
			continue
		}
		for _, field := range []string{"plan", "json", "output", "response"} {
			inner, ok := envelope[field]
			if !ok {
				continue
			}
			var asText string
			if err := json.Unmarshal(inner, &asText); err == nil {
				forms = append(forms, []byte(asText))
			} else {
				forms = append(forms, inner)
			}
		}
	}

	return forms
}

func stripCodeFences(c []byte) []byte {
	s := strings.TrimSpace(string(c))
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return []byte(strings.TrimSpace(s))
}

func truncateForLog(raw []byte) string {
	const max = 2048
	if len(raw) > max {
		return string(raw[:max]) + "...(truncated)"
	}
	return string(raw)
}

func planResponseSchema() *genai.Schema {
	post := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"source":             {Type: genai.TypeString, Enum: []string{models.PostSourcePriority, models.PostSourceScheduled}},
			"platform":           {Type: genai.TypeString, Enum: []string{models.PlatformInstagram, models.PlatformFacebook}},
			"format":             {Type: genai.TypeString, Enum: []string{models.FormatPost, models.FormatReel, models.FormatStory}},
			"suggestedTimeLocal": {Type: genai.TypeString},
			"caption":            {Type: genai.TypeString},
			"hashtags":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"mediaInstructions":  {Type: genai.TypeString},
			"approvalRequired":   {Type: genai.TypeBoolean},
			"approvalReason":     {Type: genai.TypeString},
		},
		Required: []string{"source", "platform", "format", "suggestedTimeLocal", "caption", "hashtags", "mediaInstructions", "approvalRequired", "approvalReason"},
	}

	day := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"date":  {Type: genai.TypeString},
			"posts": {Type: genai.TypeArray, Items: post},
		},
		Required: []string{"date", "posts"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"horizonStartDate": {Type: genai.TypeString},
			"horizonEndDate":   {Type: genai.TypeString},
			"days":             {Type: genai.TypeArray, Items: day},
		},
		Required: []string{"horizonStartDate", "horizonEndDate", "days"},
	}
}

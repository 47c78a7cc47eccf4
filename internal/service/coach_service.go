package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var ErrEmptyQuery = errors.New("query cannot be empty")

const (
	coachExerciseLimit = 5
	coachMaxTokens     = 500
	coachTemperature   = 0.7
)

// CoachAnswer is the assembled response to a coaching question.
type CoachAnswer struct {
	ID                string            `json:"id"`
	Response          string            `json:"response"`
	RelevantExercises []domain.Exercise `json:"relevant_exercises"`
}

// CompletionClient abstracts the chat completion backend so the coach can be
// exercised without a live API.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// openAICompletionClient calls the OpenAI chat completions API.
type openAICompletionClient struct {
	client openai.Client
	model  string
}

// NewOpenAICompletionClient creates a completion client backed by OpenAI.
func NewOpenAICompletionClient(apiKey, model string) CompletionClient {
	return &openAICompletionClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *openAICompletionClient) Complete(ctx context.Context, system, user string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature:         openai.Float(coachTemperature),
		MaxCompletionTokens: openai.Int(coachMaxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// --- Service Interface ---
type CoachService interface {
	AskCoach(ctx context.Context, userID primitive.ObjectID, query string) (*CoachAnswer, error)
}

type coachService struct {
	exerciseRepo repository.ExerciseRepository
	completions  CompletionClient
	activity     *ActivityRecorder
}

// NewCoachService creates a new instance of coachService. completions may be
// nil, in which case every answer uses the rule-based fallback.
func NewCoachService(exerciseRepo repository.ExerciseRepository, completions CompletionClient, activity *ActivityRecorder) CoachService {
	return &coachService{
		exerciseRepo: exerciseRepo,
		completions:  completions,
		activity:     activity,
	}
}

// AskCoach answers a free-form fitness question, grounding the reply in
// catalog exercises matched from the query text.
func (s *coachService) AskCoach(ctx context.Context, userID primitive.ObjectID, query string) (*CoachAnswer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	relevant, err := s.findRelevantExercises(ctx, query, coachExerciseLimit)
	if err != nil {
		log.Printf("WARN: coach exercise lookup failed: %v", err)
		relevant = nil
	}

	response := s.generateResponse(ctx, query, relevant)

	s.activity.Record(ctx, userID, domain.ActivityAICoach, truncateTitle(query, 80), "")

	return &CoachAnswer{
		ID:                uuid.NewString(),
		Response:          response,
		RelevantExercises: relevant,
	}, nil
}

func (s *coachService) generateResponse(ctx context.Context, query string, relevant []domain.Exercise) string {
	if s.completions != nil {
		answer, err := s.completions.Complete(ctx, coachSystemMessage(relevant), query)
		if err == nil && answer != "" {
			return answer
		}
		if err != nil {
			log.Printf("WARN: coach completion failed, using fallback: %v", err)
		}
	}
	return fallbackResponse(query, relevant)
}

// coachSystemMessage builds the system prompt with matched exercises as
// retrieval context.
func coachSystemMessage(relevant []domain.Exercise) string {
	var ctxLines []string
	for _, ex := range relevant {
		mechanic := ex.Mechanic
		if mechanic == "" {
			mechanic = "N/A"
		}
		ctxLines = append(ctxLines, fmt.Sprintf(
			"Exercise: %s\nType: %s (Primary Muscles: %s)\nEquipment: %s\nLevel: %s",
			ex.Name, mechanic, strings.Join(ex.PrimaryMuscles, ", "), ex.Equipment, ex.Level))
	}

	return "You are an expert fitness coach with deep knowledge about exercise, nutrition, and training. " +
		"Your goal is to provide helpful, science-based advice tailored to the user's needs. " +
		"Consider the best approaches for different fitness levels and goals. " +
		"When responding, consider the following relevant exercises from our database that may help answer the query:\n\n" +
		strings.Join(ctxLines, "\n\n")
}

// fallbackResponse produces a rule-based answer when no completion backend is
// available or the call failed.
func fallbackResponse(query string, relevant []domain.Exercise) string {
	names := make([]string, 0, 3)
	for _, ex := range relevant {
		names = append(names, ex.Name)
		if len(names) == 3 {
			break
		}
	}
	nameList := strings.Join(names, ", ")
	if nameList == "" {
		nameList = "compound movements such as squats, push-ups and rows"
	}

	queryLower := strings.ToLower(query)
	if strings.Contains(queryLower, "best exercise") || strings.Contains(queryLower, "recommend") {
		return fmt.Sprintf("Based on your question, I'd recommend trying %s. These exercises are effective for targeting the muscles you're interested in.", nameList)
	}
	return fmt.Sprintf("While I can't provide a detailed answer right now, exercises like %s might help with what you're looking for. Remember to always use proper form and consult with a professional if you have any health concerns.", nameList)
}

// findRelevantExercises matches catalog exercises against keywords in the
// query, with goal-specific fallback queries when nothing specific matches.
func (s *coachService) findRelevantExercises(ctx context.Context, query string, limit int64) ([]domain.Exercise, error) {
	queryLower := strings.ToLower(query)

	muscles := extractMuscleTargets(queryLower)
	equipment := extractEquipment(queryLower)
	goal := extractGoal(queryLower)
	level := extractLevel(queryLower)

	if len(muscles) > 0 || len(equipment) > 0 || level != "" {
		exercises, err := s.exerciseRepo.Find(ctx, repository.ExerciseFilter{
			PrimaryMuscles: muscles,
			Equipment:      equipment,
			Level:          level,
			Limit:          limit,
		})
		if err != nil {
			return nil, err
		}
		if len(exercises) > 0 {
			return exercises, nil
		}
	}

	if goal != "" && len(muscles) == 0 {
		if exercises, err := s.goalFallback(ctx, goal, limit); err != nil {
			return nil, err
		} else if len(exercises) > 0 {
			return exercises, nil
		}
	}

	// Default: a sweep across the major muscle groups.
	return s.exerciseRepo.Find(ctx, repository.ExerciseFilter{
		PrimaryMuscles: []string{"chest", "back", "shoulders", "quadriceps", "abdominals"},
		Limit:          limit,
	})
}

func (s *coachService) goalFallback(ctx context.Context, goal string, limit int64) ([]domain.Exercise, error) {
	switch goal {
	case "strength":
		return s.exerciseRepo.Find(ctx, repository.ExerciseFilter{
			Mechanic:  domain.MechanicCompound,
			Equipment: []string{"barbell", "dumbbell"},
			Limit:     limit,
		})
	case "muscle":
		return s.exerciseRepo.Find(ctx, repository.ExerciseFilter{
			Mechanic: domain.MechanicCompound,
			Limit:    limit,
		})
	case "fat loss":
		return s.exerciseRepo.Find(ctx, repository.ExerciseFilter{
			Equipment: []string{"body only"},
			Limit:     limit,
		})
	}
	return nil, nil
}

// keywordGroup maps a canonical catalog value to the phrases that imply it.
type keywordGroup struct {
	value    string
	keywords []string
}

var muscleKeywords = []keywordGroup{
	{"chest", []string{"chest", "pectoral", "pecs"}},
	{"back", []string{"back", "lats", "latissimus"}},
	{"shoulders", []string{"shoulder", "deltoid", "delts"}},
	{"biceps", []string{"bicep", "biceps", "arm"}},
	{"triceps", []string{"tricep", "triceps"}},
	{"quadriceps", []string{"quad", "quads", "quadriceps", "thigh", "leg"}},
	{"hamstrings", []string{"hamstring", "hamstrings", "leg"}},
	{"abdominals", []string{"abs", "abdomen", "abdominal", "core", "six pack"}},
	{"glutes", []string{"glute", "glutes", "buttocks", "butt"}},
	{"calves", []string{"calf", "calves"}},
	{"forearms", []string{"forearm", "forearms", "grip"}},
}

var equipmentKeywords = []keywordGroup{
	{"barbell", []string{"barbell", "bar"}},
	{"dumbbell", []string{"dumbbell", "dumbbells"}},
	{"kettlebell", []string{"kettlebell", "kettlebells"}},
	{"cable", []string{"cable", "cables", "pulley"}},
	{"machine", []string{"machine", "machines"}},
	{"body only", []string{"bodyweight", "body weight", "no equipment", "without equipment", "body only"}},
	{"bands", []string{"band", "bands", "resistance band"}},
}

func matchKeywordGroups(query string, groups []keywordGroup) []string {
	var result []string
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(query, kw) {
				result = append(result, g.value)
				break
			}
		}
	}
	return result
}

func extractMuscleTargets(query string) []string {
	return matchKeywordGroups(query, muscleKeywords)
}

func extractEquipment(query string) []string {
	return matchKeywordGroups(query, equipmentKeywords)
}

func extractGoal(query string) string {
	switch {
	case containsAny(query, "strength", "stronger", "power"):
		return "strength"
	case containsAny(query, "muscle", "hypertrophy", "bigger", "mass", "size", "build"):
		return "muscle"
	case containsAny(query, "fat", "weight loss", "lose weight", "burn", "slim", "tone"):
		return "fat loss"
	case containsAny(query, "endurance", "stamina", "cardio"):
		return "endurance"
	}
	return ""
}

func extractLevel(query string) string {
	switch {
	case containsAny(query, "beginner", "start", "new", "basic", "novice"):
		return domain.LevelBeginner
	case containsAny(query, "intermediate", "moderate", "some experience"):
		return domain.LevelIntermediate
	case containsAny(query, "expert", "advanced", "hard", "challenging"):
		return domain.LevelExpert
	}
	return ""
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncateTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

package scoring

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/artem13815/hrbot/pkg/llm"
	"github.com/artem13815/hrbot/pkg/logger"
)

const (
	DefaultScore  = 5.0
	maxResumeRune = 2000
	previewLimit  = 300
)

// NoKeyNarrative is reported when no scoring credential is configured.
const NoKeyNarrative = "Ошибка: API-ключ не настроен."

var scorePattern = regexp.MustCompile(`\b\d+\.\d\b`)

// sleep is swapped in tests.
var sleep = func(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Result is the outcome of one scoring attempt.
type Result struct {
	Score     float64
	Narrative string
}

type Options struct {
	// Delay is waited before every request.
	Delay time.Duration
	// RPS caps requests across all conversations; zero disables the limiter.
	RPS float64
}

// Scorer rates a resume against a vacancy with an LLM. It never fails: every
// error degrades to DefaultScore with an explanatory narrative.
type Scorer struct {
	model   llm.ChatModel
	delay   time.Duration
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewScorer accepts a nil model, which reports a missing credential on every call.
func NewScorer(model llm.ChatModel, opts Options, log *zap.Logger) *Scorer {
	s := &Scorer{model: model, delay: opts.Delay, log: logger.OrNop(log).Named("scoring")}
	if opts.RPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}
	return s
}

func (s *Scorer) Score(ctx context.Context, resumeText, vacancyText string) Result {
	if s.model == nil {
		s.log.Error("scoring model is not configured")
		return Result{Score: DefaultScore, Narrative: NoKeyNarrative}
	}

	prompt := BuildPrompt(resumeText, vacancyText)
	sleep(ctx, s.delay)
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return s.failed(err)
		}
	}

	s.log.Debug("scoring request",
		zap.String("model", s.model.Model()),
		zap.String("prompt", logger.TruncateForLog(prompt, previewLimit)),
	)
	reply, err := s.model.Ask(ctx, "", prompt)
	if err != nil {
		if errors.Is(err, llm.ErrNoAPIKey) {
			s.log.Error("scoring api key is not set")
			return Result{Score: DefaultScore, Narrative: NoKeyNarrative}
		}
		return s.failed(err)
	}
	s.log.Debug("scoring response", zap.String("reply", logger.TruncateForLog(reply, previewLimit)))
	return Result{Score: ExtractScore(reply), Narrative: reply}
}

func (s *Scorer) failed(err error) Result {
	s.log.Error("scoring request failed", zap.Error(err))
	return Result{
		Score:     DefaultScore,
		Narrative: fmt.Sprintf("Ошибка анализа: %v. Попробуем ещё раз? 😄", err),
	}
}

// BuildPrompt renders the scoring instruction for the first 2000 runes of the resume.
func BuildPrompt(resumeText, vacancyText string) string {
	if r := []rune(resumeText); len(r) > maxResumeRune {
		resumeText = string(r[:maxResumeRune])
	}
	return fmt.Sprintf("Анализируй резюме: %s\n"+
		"Вакансия: %s\n"+
		"Оцени по шкале от 0 до 10 с одним десятичным знаком (например, 7.5) и дай краткий анализ (2-3 предложения) с позитивным настроением! 😄",
		resumeText, vacancyText)
}

// ExtractScore returns the first one-decimal number in reply, or DefaultScore.
func ExtractScore(reply string) float64 {
	m := scorePattern.FindString(reply)
	if m == "" {
		return DefaultScore
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return DefaultScore
	}
	return v
}

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

type stubGenerator struct {
	response string
	err      error
	delay    time.Duration
	calls    int
	prompt   string
}

func (s *stubGenerator) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.response, s.err
}

func basePlan() []models.Recommendation {
	return Plan(planScore(30, 25, 70), startupXYZ)
}

func TestEnhance_RewritesReasoningOnly(t *testing.T) {
	gen := &stubGenerator{response: "1. StartupXYZ has logged in only three times this month.\n2. No touchpoint since the renewal conversation stalled."}
	e := NewEnhancer(gen, time.Second, zap.NewNop())

	recs := basePlan()
	out := e.Enhance(context.Background(), startupXYZ, planScore(30, 25, 70), recs)

	require.Len(t, out, len(recs))
	for i := range out {
		assert.Equal(t, recs[i].Action, out[i].Action)
		assert.Equal(t, recs[i].Priority, out[i].Priority)
		assert.Equal(t, recs[i].Timeline, out[i].Timeline)
		assert.Equal(t, recs[i].Dimension, out[i].Dimension)
	}
	assert.Equal(t, "StartupXYZ has logged in only three times this month.", out[0].Reasoning)
	assert.Equal(t, "No touchpoint since the renewal conversation stalled.", out[1].Reasoning)
}

func TestEnhance_GeneratorErrorLeavesPlanUntouched(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	e := NewEnhancer(gen, time.Second, zap.NewNop())

	recs := basePlan()
	out := e.Enhance(context.Background(), startupXYZ, planScore(30, 25, 70), recs)
	assert.Equal(t, recs, out)
}

func TestEnhance_TimeoutLeavesPlanUntouched(t *testing.T) {
	gen := &stubGenerator{response: "1. too late", delay: 200 * time.Millisecond}
	e := NewEnhancer(gen, 10*time.Millisecond, zap.NewNop())

	recs := basePlan()
	start := time.Now()
	out := e.Enhance(context.Background(), startupXYZ, planScore(30, 25, 70), recs)

	assert.Equal(t, recs, out)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestEnhance_MalformedResponseIgnored(t *testing.T) {
	gen := &stubGenerator{response: "Here are some thoughts about the customer."}
	e := NewEnhancer(gen, time.Second, zap.NewNop())

	recs := basePlan()
	out := e.Enhance(context.Background(), startupXYZ, planScore(30, 25, 70), recs)
	assert.Equal(t, recs, out)
}

func TestEnhance_PartialResponseRewritesMatchedLinesOnly(t *testing.T) {
	gen := &stubGenerator{response: "2. Only the second line came back usable.\n7. out of range"}
	e := NewEnhancer(gen, time.Second, zap.NewNop())

	recs := basePlan()
	out := e.Enhance(context.Background(), startupXYZ, planScore(30, 25, 70), recs)

	require.Len(t, out, len(recs))
	assert.Equal(t, recs[0].Reasoning, out[0].Reasoning)
	assert.Equal(t, "Only the second line came back usable.", out[1].Reasoning)
}

func TestEnhance_NeverAddsOrDropsActions(t *testing.T) {
	gen := &stubGenerator{response: "1. a\n2. b\n3. c\n4. d\n5. e"}
	e := NewEnhancer(gen, time.Second, zap.NewNop())

	recs := basePlan()
	out := e.Enhance(context.Background(), startupXYZ, planScore(30, 25, 70), recs)
	assert.Len(t, out, len(recs))
}

func TestEnhance_NilGeneratorPassesThrough(t *testing.T) {
	e := NewEnhancer(nil, time.Second, zap.NewNop())
	recs := basePlan()
	assert.Equal(t, recs, e.Enhance(context.Background(), startupXYZ, planScore(30, 25, 70), recs))
}

func TestEnhance_EmptyPlanSkipsTheModel(t *testing.T) {
	gen := &stubGenerator{response: "1. anything"}
	e := NewEnhancer(gen, time.Second, zap.NewNop())

	out := e.Enhance(context.Background(), startupXYZ, planScore(100, 100, 100), nil)
	assert.Empty(t, out)
	assert.Zero(t, gen.calls)
}

func TestEnhance_PromptCarriesPlanAndScores(t *testing.T) {
	gen := &stubGenerator{response: "1. fine\n2. fine"}
	e := NewEnhancer(gen, time.Second, zap.NewNop())

	e.Enhance(context.Background(), startupXYZ, planScore(30, 25, 70), basePlan())
	require.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompt, "StartupXYZ")
	assert.Contains(t, gen.prompt, "usage 30")
	assert.Contains(t, gen.prompt, "Schedule product training")
}

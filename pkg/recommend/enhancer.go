package recommend

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Generator produces a text completion. Satisfied by the llm package
// clients; kept local so this package stays mockable without importing
// a provider SDK.
type Generator interface {
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)
}

const enhancerSystemMessage = "You are a senior customer success strategist. " +
	"You rewrite recommendation reasoning to be specific and actionable. " +
	"You never invent facts not present in the input."

const enhancerTemperature = 0.4

// Numbered lines in the model output, one rewritten reasoning per line.
var reasoningLine = regexp.MustCompile(`(?m)^\s*(\d+)\.\s*(.+?)\s*$`)

// Enhancer rewrites recommendation reasoning text through a generative
// model. It is strictly best-effort: any error, timeout, or malformed
// response leaves the deterministic plan untouched.
type Enhancer struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewEnhancer creates an enhancer. A nil generator yields an enhancer
// that passes plans through unchanged.
func NewEnhancer(gen Generator, timeout time.Duration, logger *zap.Logger) *Enhancer {
	return &Enhancer{
		gen:     gen,
		timeout: timeout,
		logger:  logger.Named("enhancer"),
	}
}

// Enhance returns a copy of recs with reasoning strings rewritten where
// the model produced a usable line. Action, Priority, Timeline, and the
// number and order of recommendations never change.
func (e *Enhancer) Enhance(ctx context.Context, customer models.Customer, score models.HealthScore, recs []models.Recommendation) []models.Recommendation {
	if e == nil || e.gen == nil || len(recs) == 0 {
		return recs
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content, err := e.gen.GenerateResponse(ctx, e.buildPrompt(customer, score, recs), enhancerSystemMessage, enhancerTemperature)
	if err != nil {
		e.logger.Debug("reasoning enhancement skipped",
			zap.String("customer_id", score.CustomerID),
			zap.Error(err))
		return recs
	}

	rewritten := parseReasoningLines(content, len(recs))
	if len(rewritten) == 0 {
		e.logger.Debug("reasoning enhancement produced no usable lines",
			zap.String("customer_id", score.CustomerID))
		return recs
	}

	out := make([]models.Recommendation, len(recs))
	copy(out, recs)
	for i, text := range rewritten {
		if text != "" {
			out[i].Reasoning = text
		}
	}
	return out
}

func (e *Enhancer) buildPrompt(customer models.Customer, score models.HealthScore, recs []models.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer: %s", subjectName(customer))
	if customer.CustomerType != "" {
		fmt.Fprintf(&b, " (%s)", customer.CustomerType)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Health: composite %d (%s), usage %d, relationship %d, support %d\n\n",
		score.Composite, score.Status, score.UsageScore, score.RelationshipScore, score.SupportScore)

	b.WriteString("Planned actions:\n")
	for i, r := range recs {
		fmt.Fprintf(&b, "%d. %s (priority %s, %s). Current reasoning: %s\n",
			i+1, r.Action, r.Priority, r.Timeline, r.Reasoning)
	}

	fmt.Fprintf(&b, "\nRewrite the reasoning for each action to be specific to this customer. "+
		"Respond with exactly %d lines, each formatted as \"N. <reasoning>\" matching the numbering above. "+
		"Do not change the actions, priorities, or timelines. No other text.", len(recs))
	return b.String()
}

// parseReasoningLines maps numbered output lines back to plan positions.
// Out-of-range numbers are ignored; a duplicate number overwrites.
func parseReasoningLines(content string, n int) map[int]string {
	matches := reasoningLine.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make(map[int]string, n)
	for _, m := range matches {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > n {
			continue
		}
		out[idx-1] = strings.TrimSpace(m[2])
	}
	return out
}

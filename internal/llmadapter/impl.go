package llmadapter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/extraction"
)

// Adapter is the one concrete type behind every (provider, role) pair: the
// provider families in §4.3 differ only in endpoint, auth, and wire
// encoding, all of which live in Config and baseAdapter.invokeOnce, not in
// the Go type — so one struct serves ollama/openai/anthropic/mlx alike,
// exactly as chatRequest/chatResponse already unify their wire shape.
type Adapter struct {
	base baseAdapter
	cfg  Config
}

// New constructs the adapter for one (provider, role) pair per cfg.
func New(cfg Config) *Adapter {
	return &Adapter{base: newBaseAdapter(cfg), cfg: cfg}
}

func (a *Adapter) Name() string { return a.cfg.ProviderName + "/" + a.cfg.Model }

// GenerateEnhancement implements Enhancer.
func (a *Adapter) GenerateEnhancement(ctx context.Context, t domain.Task) (domain.Enhancement, error) {
	text, err := a.base.Invoke(ctx, enhancementPrompt(t))
	if err != nil {
		return fallbackEnhancement(a.cfg.ProviderName, a.cfg.Model, t), nil
	}

	parsed, err := extraction.Parse[extraction.EnhancementResult](text)
	if err != nil {
		if errors.Is(err, extraction.ErrUnparseable) {
			return fallbackEnhancement(a.cfg.ProviderName, a.cfg.Model, t), nil
		}
		return domain.Enhancement{}, err
	}

	return domain.Enhancement{
		ID:      uuid.NewString(),
		TaskID:  t.ID,
		At:      time.Now().UTC(),
		Kind:    parsed.Kind,
		Content: parsed.Content,
	}, nil
}

// GenerateComprehensionTest implements Tester.
func (a *Adapter) GenerateComprehensionTest(ctx context.Context, t domain.Task, kind domain.ComprehensionTestType) (domain.ComprehensionTest, error) {
	text, err := a.base.Invoke(ctx, comprehensionTestPrompt(t, kind))
	if err != nil {
		return fallbackComprehensionTest(a.cfg.ProviderName, a.cfg.Model, t, kind), nil
	}

	parsed, err := extraction.Parse[extraction.ComprehensionTestResult](text)
	if err != nil {
		if errors.Is(err, extraction.ErrUnparseable) {
			return fallbackComprehensionTest(a.cfg.ProviderName, a.cfg.Model, t, kind), nil
		}
		return domain.ComprehensionTest{}, err
	}

	return domain.ComprehensionTest{
		ID:            uuid.NewString(),
		TaskID:        t.ID,
		At:            time.Now().UTC(),
		Type:          domain.ComprehensionTestType(parsed.Type),
		Question:      extraction.TruncateQuestion(parsed.Question),
		AnswerOptions: parsed.AnswerOptions,
		CorrectAnswer: parsed.CorrectAnswer,
	}, nil
}

// DecomposeTask implements Decomposer. Child counts outside [3,5] are
// treated as an Unparseable response (§9's resolved open question) that
// falls through to the deterministic fallback rather than being trimmed or
// padded silently.
func (a *Adapter) DecomposeTask(ctx context.Context, t domain.Task) ([]domain.Task, error) {
	text, err := a.base.Invoke(ctx, decompositionPrompt(t))
	if err != nil {
		return a.finalizeChildren(t, fallbackDecomposition(a.cfg.ProviderName, a.cfg.Model, t)), nil
	}

	parsed, perr := extraction.Parse[extraction.DecompositionResult](text)
	if perr != nil || len(parsed.Tasks) < 3 || len(parsed.Tasks) > 5 {
		return a.finalizeChildren(t, fallbackDecomposition(a.cfg.ProviderName, a.cfg.Model, t)), nil
	}

	now := time.Now().UTC()
	childComplexity := 1
	if t.Complexity != nil {
		childComplexity = maxInt(1, *t.Complexity-2)
	}
	children := make([]domain.Task, 0, len(parsed.Tasks))
	for _, ct := range parsed.Tasks {
		c := childComplexity
		children = append(children, domain.Task{
			ID:           uuid.NewString(),
			Title:        ct.Title,
			Status:       domain.StatusTodo,
			ParentTaskID: t.ID,
			Reasoning:    ct.Reasoning,
			ContextFiles: ct.Context,
			Complexity:   &c,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return a.finalizeChildren(t, children), nil
}

// finalizeChildren stamps parent_task_id; child id stamping already
// happened at construction. Kept as a named step so the "carry parent
// linkage" invariant has one call site to audit.
func (a *Adapter) finalizeChildren(parent domain.Task, children []domain.Task) []domain.Task {
	for i := range children {
		children[i].ParentTaskID = parent.ID
	}
	return children
}

// ParsePRDToTasks implements PRDParser.
func (a *Adapter) ParsePRDToTasks(ctx context.Context, prd domain.PRD) ([]domain.Task, error) {
	text, err := a.base.Invoke(ctx, prdTasksPrompt(prd))
	if err != nil {
		return fallbackPRDTasks(a.cfg.ProviderName, a.cfg.Model, prd), nil
	}

	parsed, perr := extraction.Parse[extraction.PRDTasksResult](text)
	if perr != nil || len(parsed.Tasks) == 0 {
		return fallbackPRDTasks(a.cfg.ProviderName, a.cfg.Model, prd), nil
	}

	now := time.Now().UTC()
	out := make([]domain.Task, 0, len(parsed.Tasks))
	for _, pt := range parsed.Tasks {
		var contextFiles []string
		if pt.Context != "" {
			contextFiles = []string{pt.Context}
		}
		out = append(out, domain.Task{
			ID:           uuid.NewString(),
			Title:        pt.Title,
			Status:       domain.StatusTodo,
			SourcePRDID:  prd.ID,
			ContextFiles: contextFiles,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return out, nil
}

// ParseTranscriptToTasks implements TranscriptParser. Action items carry the
// title, assignee, due date and context the model extracted plus source
// linkage (§2 data flow); no complexity is set at this stage.
func (a *Adapter) ParseTranscriptToTasks(ctx context.Context, transcriptID, transcript string) ([]domain.Task, error) {
	text, err := a.base.Invoke(ctx, transcriptActionItemsPrompt(transcript))
	if err != nil {
		return fallbackActionItems(a.cfg.ProviderName, a.cfg.Model, transcriptID, transcript), nil
	}

	parsed, perr := extraction.Parse[extraction.ActionItems](text)
	if perr != nil || len(parsed.Items) == 0 {
		return fallbackActionItems(a.cfg.ProviderName, a.cfg.Model, transcriptID, transcript), nil
	}

	now := time.Now().UTC()
	out := make([]domain.Task, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		var due *time.Time
		if item.DueDate != "" {
			if d, err := time.Parse("2006-01-02", item.DueDate); err == nil {
				due = &d
			}
		}
		out = append(out, domain.Task{
			ID:                 uuid.NewString(),
			Title:              item.Title,
			Assignee:           item.Assignee,
			DueDate:            due,
			Status:             domain.StatusTodo,
			SourceTranscriptID: transcriptID,
			ContextFiles:       item.Context,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	return out, nil
}

var (
	_ Enhancer         = (*Adapter)(nil)
	_ Tester           = (*Adapter)(nil)
	_ Decomposer       = (*Adapter)(nil)
	_ PRDParser        = (*Adapter)(nil)
	_ TranscriptParser = (*Adapter)(nil)
)

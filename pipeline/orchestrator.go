package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wardenhq/warden/frame"
	"github.com/wardenhq/warden/model"
)

// EventSink receives progress events as the orchestrator emits them. It
// must not block for long — the orchestrator calls it synchronously on the
// goroutine driving each frame's lifecycle.
type EventSink func(Event)

// Options configures an Orchestrator.
type Options struct {
	// Parallelism bounds the worker pool used for parallel_safe frame
	// groups. Defaults to min(physical cores, 8) per §5.
	Parallelism int

	// CircuitBreakerThreshold is N in "more than N consecutive file scans
	// throw" (default 5).
	CircuitBreakerThreshold int
}

// DefaultOptions returns Options with the §5 defaults.
func DefaultOptions() Options {
	p := runtime.NumCPU()
	if p > 8 {
		p = 8
	}
	return Options{Parallelism: p, CircuitBreakerThreshold: 5}
}

// Orchestrator runs one pipeline per invocation — it is not multi-tenant.
type Orchestrator struct {
	opts   Options
	engine RuleEngine
	rules  map[string]model.Rule
	sink   EventSink
}

// NewOrchestrator builds an Orchestrator. sink may be nil to discard events.
func NewOrchestrator(opts Options, engine RuleEngine, knownRules map[string]model.Rule, sink EventSink) *Orchestrator {
	if opts.Parallelism <= 0 {
		opts = DefaultOptions()
	}
	if sink == nil {
		sink = func(Event) {}
	}
	return &Orchestrator{opts: opts, engine: engine, rules: knownRules, sink: sink}
}

// frameOutcome is the internal record of one frame's run, kept alongside
// its original position so the final report can be reordered back to the
// C4 ordering regardless of completion order.
type frameOutcome struct {
	result model.FrameResult
	fired  bool // whether on_fail should be evaluated for this outcome
}

// Run executes resolved (already ordered per C4) through its declared
// phases and returns the final PipelineResult.
func (o *Orchestrator) Run(ctx context.Context, pipelineName string, resolved []ResolvedFrame, batch frame.Batch, pctxBase frame.Context) (*model.PipelineResult, error) {
	result := model.NewPipelineResult(uuid.New().String(), pipelineName)
	result.Status = model.PipelineRunning
	result.StartedAt = time.Now()
	result.TotalFrames = len(resolved)

	outcomes := make([]frameOutcome, len(resolved))
	skipped := make(map[string]bool)
	cancelled := false
	stopped := false

	byPhase := groupByPhase(resolved)

phaseLoop:
	for _, phase := range model.PhaseOrder {
		group := byPhase[phase]
		if len(group) == 0 {
			continue
		}

		for _, priGroup := range groupByPriority(group) {
			if stopped {
				break
			}
			select {
			case <-ctx.Done():
				cancelled = true
			default:
			}
			if cancelled {
				break phaseLoop
			}

			o.runPriorityGroup(ctx, priGroup, batch, pctxBase, skipped, outcomes)

			for _, rf := range priGroup {
				oc := outcomes[rf.index]
				if skipped[rf.frame.Config.ID] {
					continue
				}
				action := evaluateOnFail(oc, rf.frame.Config)
				switch action {
				case actionStop:
					stopped = true
				case actionSkipDependents:
					markDependentsSkipped(rf.frame.Config.ID, resolved, skipped)
				}
			}

			select {
			case <-ctx.Done():
				cancelled = true
			default:
			}
			if cancelled || stopped {
				break
			}
		}
		if cancelled || stopped {
			break
		}
	}

	markUnstarted(resolved, outcomes, skipped)

	finalize(result, resolved, outcomes)
	result.StopOnFailFired = stopped

	switch {
	case cancelled:
		result.Status = model.PipelineCancelled
	case stopped:
		result.Status = model.PipelineFailed
	default:
		result.Status = computeStatus(result)
	}

	result.DurationMS = time.Since(result.StartedAt).Milliseconds()
	o.sink(Event{Type: EventPipelineDone, Status: result.Status, DurationMS: result.DurationMS})

	return result, nil
}

type indexedFrame struct {
	index int
	frame ResolvedFrame
}

func groupByPhase(resolved []ResolvedFrame) map[model.Phase][]indexedFrame {
	grouped := make(map[model.Phase][]indexedFrame)
	for i, rf := range resolved {
		grouped[rf.Config.Phase] = append(grouped[rf.Config.Phase], indexedFrame{index: i, frame: rf})
	}
	return grouped
}

// groupByPriority splits a phase's frames into consecutive runs sharing the
// same priority rank, preserving relative order — matching "frames of
// different priority levels are not parallel with each other".
func groupByPriority(frames []indexedFrame) [][]indexedFrame {
	var groups [][]indexedFrame
	var current []indexedFrame
	for _, f := range frames {
		if len(current) > 0 && current[0].frame.Config.Priority.Rank() != f.frame.Config.Priority.Rank() {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, f)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func (o *Orchestrator) runPriorityGroup(ctx context.Context, group []indexedFrame, batch frame.Batch, pctxBase frame.Context, skipped map[string]bool, outcomes []frameOutcome) {
	var parallelSafe, sequential []indexedFrame
	for _, f := range group {
		if skipped[f.frame.Config.ID] {
			continue
		}
		if f.frame.Config.Parallel {
			parallelSafe = append(parallelSafe, f)
		} else {
			sequential = append(sequential, f)
		}
	}

	for _, f := range sequential {
		outcomes[f.index] = o.runOne(ctx, f.frame, batch, pctxBase)
	}

	if len(parallelSafe) == 0 {
		return
	}

	sem := make(chan struct{}, o.opts.Parallelism)
	var wg sync.WaitGroup
	for _, f := range parallelSafe {
		f := f
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[f.index] = o.runOne(ctx, f.frame, batch, pctxBase)
		}()
	}
	wg.Wait()
}

// runOne executes the per-frame algorithm from §4.5: pre_rules, the timeout
// / uncaught-error / circuit-breaker wrapped Execute call, then post_rules.
func (o *Orchestrator) runOne(ctx context.Context, rf ResolvedFrame, batch frame.Batch, pctxBase frame.Context) frameOutcome {
	cfg := rf.Config
	o.sink(Event{Type: EventFrameStarted, FrameID: cfg.ID, FrameName: cfg.Name, Phase: cfg.Phase})

	start := time.Now()
	breaker := newCircuitBreaker(o.opts.CircuitBreakerThreshold)
	pctx := pctxBase
	pctx.Breaker = breaker

	var allFindings []model.Finding

	if preFindings, err := RunRules(ctx, o.engine, cfg.PreRules, o.rules, cfg.ID, batch, pctx); err == nil {
		allFindings = append(allFindings, preFindings...)
	}

	status, execFindings, errMsg := o.executeWithGuards(ctx, rf.Frame, batch, pctx, cfg)
	allFindings = append(allFindings, execFindings...)

	if postFindings, err := RunRules(ctx, o.engine, cfg.PostRules, o.rules, cfg.ID, batch, pctx); err == nil {
		allFindings = append(allFindings, postFindings...)
	}

	sortFindings(allFindings)

	fr := model.FrameResult{
		FrameID:    cfg.ID,
		FrameName:  cfg.Name,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		IsBlocker:  cfg.IsBlocker,
		Findings:   allFindings,
	}
	if errMsg != "" {
		fr.Metadata = map[string]interface{}{"error": errMsg}
	}

	o.sink(Event{
		Type: EventFrameCompleted, FrameID: cfg.ID, FrameName: cfg.Name,
		Status: status, DurationMS: fr.DurationMS, IssuesFound: fr.IssuesFound(),
	})

	hasBlocker := false
	for _, f := range allFindings {
		if f.Severity.IsBlocker() {
			hasBlocker = true
			break
		}
	}

	return frameOutcome{
		result: fr,
		fired:  status == model.FrameStatusErrored || hasBlocker,
	}
}

// executeWithGuards wraps frame.Execute with the per-frame timeout and an
// uncaught-error (panic) barrier, per §4.5 step 3.
func (o *Orchestrator) executeWithGuards(ctx context.Context, f frame.Frame, batch frame.Batch, pctx frame.Context, cfg model.FrameConfig) (model.FrameStatus, []model.Finding, string) {
	timeoutCtx, cancel := context.WithTimeout(ctx, cfg.EffectiveTimeout())
	defer cancel()

	type execOutcome struct {
		result *model.FrameResult
		err    error
		panicked bool
		panicMsg string
	}
	done := make(chan execOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- execOutcome{panicked: true, panicMsg: fmt.Sprintf("%v", r)}
			}
		}()
		res, err := f.Execute(timeoutCtx, batch, pctx)
		done <- execOutcome{result: res, err: err}
	}()

	select {
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return model.FrameStatusErrored, nil, "cancelled"
		}
		return model.FrameStatusErrored, nil, "timeout"
	case outcome := <-done:
		if outcome.panicked {
			return model.FrameStatusErrored, nil, outcome.panicMsg
		}
		if outcome.err != nil {
			return model.FrameStatusErrored, nil, outcome.err.Error()
		}
		if outcome.result == nil {
			return model.FrameStatusPassed, nil, ""
		}
		return statusForResult(outcome.result), outcome.result.Findings, ""
	}
}

func statusForResult(r *model.FrameResult) model.FrameStatus {
	for _, f := range r.Findings {
		if f.Severity.IsBlocker() {
			return model.FrameStatusFailed
		}
	}
	if len(r.Findings) > 0 {
		return model.FrameStatusWarning
	}
	return model.FrameStatusPassed
}

func sortFindings(findings []model.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		al, bl := lineOf(a.Line), lineOf(b.Line)
		if al != bl {
			return al < bl
		}
		ac, bc := lineOf(a.Column), lineOf(b.Column)
		if ac != bc {
			return ac < bc
		}
		return a.RuleID < b.RuleID
	})
}

func lineOf(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

type onFailAction int

const (
	actionNone onFailAction = iota
	actionStop
	actionSkipDependents
)

func evaluateOnFail(oc frameOutcome, cfg model.FrameConfig) onFailAction {
	if !oc.fired {
		return actionNone
	}
	switch cfg.EffectiveOnFail() {
	case model.OnFailStop:
		return actionStop
	case model.OnFailSkipDependents:
		return actionSkipDependents
	default:
		return actionNone
	}
}

func markDependentsSkipped(frameID string, resolved []ResolvedFrame, skipped map[string]bool) {
	for _, rf := range resolved {
		for _, dep := range rf.Config.DependsOn {
			if dep == frameID {
				skipped[rf.Config.ID] = true
			}
		}
	}
}

// markUnstarted fills in a skipped FrameResult for every frame that never
// began executing — because the pipeline stopped, cancelled, or a
// skip_dependents policy fired before its turn.
func markUnstarted(resolved []ResolvedFrame, outcomes []frameOutcome, skipped map[string]bool) {
	for i, rf := range resolved {
		if outcomes[i].result.FrameID != "" {
			continue
		}
		outcomes[i] = frameOutcome{result: model.FrameResult{
			FrameID:   rf.Config.ID,
			FrameName: rf.Config.Name,
			Status:    model.FrameStatusSkipped,
			IsBlocker: rf.Config.IsBlocker,
		}}
		skipped[rf.Config.ID] = true
	}
}

func finalize(result *model.PipelineResult, resolved []ResolvedFrame, outcomes []frameOutcome) {
	result.FrameResults = make([]model.FrameResult, len(outcomes))
	for i, oc := range outcomes {
		result.FrameResults[i] = oc.result
		switch oc.result.Status {
		case model.FrameStatusPassed:
			result.FramesPassed++
		case model.FrameStatusFailed, model.FrameStatusErrored:
			result.FramesFailed++
		case model.FrameStatusSkipped:
			result.FramesSkipped++
		}
		result.TotalFindings += len(oc.result.Findings)
		for _, f := range oc.result.Findings {
			result.FindingsBySeverity.Add(f.Severity)
		}
	}
}

func computeStatus(result *model.PipelineResult) model.PipelineStatus {
	anyErrored := false
	for _, fr := range result.FrameResults {
		if fr.Status == model.FrameStatusErrored {
			anyErrored = true
		}
	}
	if anyErrored && result.FindingsBySeverity.Critical > 0 {
		return model.PipelineFailed
	}
	if result.FramesSkipped > 0 {
		return model.PipelinePartial
	}
	return model.PipelineSuccess
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/catalog"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/grouping"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/history"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/merge"
	"github.com/yungbote/medialib-admin/internal/observability"
	"github.com/yungbote/medialib-admin/internal/platform/ctxutil"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

type CatalogReader interface {
	Read(ctx context.Context) ([]domain.CatalogEntity, error)
	Search(ctx context.Context, q catalog.SearchQuery) ([]domain.CatalogEntity, error)
}

type MergeExecutor interface {
	Merge(ctx context.Context, keep, del domain.EntityRef) (*merge.Outcome, error)
	Reclassify(ctx context.Context, src domain.EntityRef, to domain.Category) (*merge.Outcome, error)
}

type HistoryStore interface {
	List(ctx context.Context) ([]*domain.HistoryEntry, error)
	Index(ctx context.Context) (map[string]*domain.HistoryEntry, error)
	Upsert(ctx context.Context, d history.Decision) (*domain.HistoryEntry, error)
	Forget(ctx context.Context, signature string) error
	Clear(ctx context.Context) error
}

type ScanOptions struct {
	// DryRun reports what replay would do without touching the catalog or
	// the pending set.
	DryRun bool
}

type ReplayResult struct {
	Signature string            `json:"signature"`
	Keep      *domain.EntityRef `json:"keep,omitempty"`
	Delete    *domain.EntityRef `json:"delete,omitempty"`
	Status    string            `json:"status"` // merged, failed, skipped, planned
	Error     string            `json:"error,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

type ScanResult struct {
	Exact             []domain.DuplicateGroup `json:"exact"`
	Similar           []domain.DuplicateGroup `json:"similar"`
	Entities          int                     `json:"entities"`
	AutoMerged        int                     `json:"auto_merged"`
	AutoMergeFailures int                     `json:"auto_merge_failures"`
	AutoMergeSkipped  int                     `json:"auto_merge_skipped"`
	Suppressed        int                     `json:"suppressed"`
	DryRun            bool                    `json:"dry_run"`
	Replays           []ReplayResult          `json:"replays,omitempty"`
}

// MergeResult is returned once the catalog merge has succeeded. A failed
// history write after that point is reported in Warnings, not as an error,
// since the merge itself cannot be retried. Reclassify records no history.
type MergeResult struct {
	Outcome         *merge.Outcome       `json:"outcome"`
	History         *domain.HistoryEntry `json:"history,omitempty"`
	HistoryRecorded bool                 `json:"history_recorded"`
	Warnings        []string             `json:"warnings,omitempty"`
}

type DedupeService interface {
	Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error)
	Pending() []domain.DuplicateGroup
	PendingGroup(signature string) (domain.DuplicateGroup, bool)
	Decide(ctx context.Context, section domain.MatchKind, group domain.DuplicateGroup, keepIndex, deleteIndex int) (*MergeResult, error)
	Decline(ctx context.Context, section domain.MatchKind, group domain.DuplicateGroup) (*domain.HistoryEntry, error)
	ManualMerge(ctx context.Context, keep, del domain.EntityRef) (*MergeResult, error)
	Reclassify(ctx context.Context, src domain.EntityRef, to domain.Category) (*MergeResult, error)
	Search(ctx context.Context, q catalog.SearchQuery) ([]domain.CatalogEntity, error)
	History(ctx context.Context) ([]*domain.HistoryEntry, error)
	ForgetHistory(ctx context.Context, signature string) error
	ClearHistory(ctx context.Context) error
}

type DedupeConfig struct {
	Threshold  float64
	CanCompare grouping.CompareFunc
}

type dedupeService struct {
	log     *logger.Logger
	reader  CatalogReader
	merger  MergeExecutor
	history HistoryStore
	metrics *observability.DedupeMetrics
	tracer  trace.Tracer
	cfg     DedupeConfig

	// pending holds the groups returned by the last scan, keyed by
	// signature, until they are decided or declined.
	mu      sync.Mutex
	pending map[string]domain.DuplicateGroup
	order   []string
}

func NewDedupeService(
	log *logger.Logger,
	reader CatalogReader,
	merger MergeExecutor,
	historyStore HistoryStore,
	metrics *observability.DedupeMetrics,
	cfg DedupeConfig,
) DedupeService {
	return &dedupeService{
		log:     log.With("service", "DedupeService"),
		reader:  reader,
		merger:  merger,
		history: historyStore,
		metrics: metrics,
		tracer:  observability.Tracer("medialib-admin/dedupe"),
		cfg:     cfg,
		pending: map[string]domain.DuplicateGroup{},
	}
}

func (s *dedupeService) opLog(ctx context.Context, op string) *logger.Logger {
	l := s.log.With("op", op)
	if operator := ctxutil.Operator(ctx); operator != "" {
		l = l.With("operator", operator)
	}
	if td := ctxutil.GetTraceData(ctx); td != nil && td.TraceID != "" {
		l = l.With("trace_id", td.TraceID)
	}
	return l
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *dedupeService) Scan(ctx context.Context, opts ScanOptions) (res *ScanResult, err error) {
	ctx, span := s.tracer.Start(ctx, "dedupe.scan", trace.WithAttributes(attribute.Bool("dry_run", opts.DryRun)))
	defer func() { endSpan(span, err) }()
	log := s.opLog(ctx, "scan")
	started := time.Now()

	entities, err := s.reader.Read(ctx)
	if err != nil {
		s.metrics.ObserveScan("error", time.Since(started), 0, 0, 0)
		return nil, err
	}
	built := grouping.Build(entities, grouping.Options{Threshold: s.cfg.Threshold, CanCompare: s.cfg.CanCompare})

	idx, err := s.history.Index(ctx)
	if err != nil {
		s.metrics.ObserveScan("error", time.Since(started), 0, 0, 0)
		return nil, err
	}

	res = &ScanResult{Entities: len(entities), DryRun: opts.DryRun, Exact: []domain.DuplicateGroup{}, Similar: []domain.DuplicateGroup{}}
	for _, g := range append(append([]domain.DuplicateGroup{}, built.Exact...), built.Similar...) {
		entry := idx[g.Signature]
		switch {
		case entry == nil:
			if g.Kind == domain.MatchExact {
				res.Exact = append(res.Exact, g)
			} else {
				res.Similar = append(res.Similar, g)
			}
		case entry.Action == domain.HistoryDeclined:
			res.Suppressed++
		case entry.Action == domain.HistoryApproved:
			rr := s.replay(ctx, log, g, entry, opts.DryRun)
			switch rr.Status {
			case "merged":
				res.AutoMerged++
			case "failed":
				res.AutoMergeFailures++
			case "skipped":
				res.AutoMergeSkipped++
			}
			res.Replays = append(res.Replays, rr)
		}
	}

	status := "success"
	if opts.DryRun {
		status = "dry_run"
	} else {
		s.replacePending(res.Exact, res.Similar)
	}
	s.metrics.ObserveScan(status, time.Since(started), len(built.Exact), len(built.Similar), len(entities))
	span.SetAttributes(
		attribute.Int("entities", len(entities)),
		attribute.Int("pending", len(res.Exact)+len(res.Similar)),
		attribute.Int("auto_merged", res.AutoMerged),
	)
	log.Info("scan complete",
		"entities", len(entities),
		"exact", len(res.Exact),
		"similar", len(res.Similar),
		"auto_merged", res.AutoMerged,
		"auto_merge_failures", res.AutoMergeFailures,
		"auto_merge_skipped", res.AutoMergeSkipped,
		"suppressed", res.Suppressed,
		"dry_run", opts.DryRun,
	)
	return res, nil
}

// replay re-applies a stored approval: keep is the member in the stored
// category, delete the first other member.
func (s *dedupeService) replay(ctx context.Context, log *logger.Logger, g domain.DuplicateGroup, entry *domain.HistoryEntry, dryRun bool) ReplayResult {
	rr := ReplayResult{Signature: g.Signature}
	keepIdx := -1
	for i, m := range g.Members {
		if m.Category == entry.Kept() {
			keepIdx = i
			break
		}
	}
	if keepIdx < 0 {
		rr.Status = "skipped"
		rr.Error = fmt.Sprintf("no member in kept category %q", entry.Kept())
		log.Warn("approved group no longer resolvable", "signature", g.Signature, "kept_category", entry.Kept())
		return rr
	}
	keep := g.Members[keepIdx].Ref()
	delIdx := -1
	for i, m := range g.Members {
		if i != keepIdx && m.Ref() != keep {
			delIdx = i
			break
		}
	}
	if delIdx < 0 {
		rr.Status = "skipped"
		return rr
	}
	del := g.Members[delIdx].Ref()
	rr.Keep, rr.Delete = &keep, &del
	if dryRun {
		rr.Status = "planned"
		return rr
	}

	out, err := s.execMerge(ctx, "replay", keep, del)
	if err != nil {
		rr.Status = "failed"
		rr.Error = err.Error()
		log.Warn("auto-merge replay failed", "signature", g.Signature, "keep", keep.Key(), "delete", del.Key(), "error", err)
		return rr
	}
	rr.Status = "merged"
	rr.Warnings = out.Warnings()
	return rr
}

func (s *dedupeService) execMerge(ctx context.Context, source string, keep, del domain.EntityRef) (out *merge.Outcome, err error) {
	ctx, span := s.tracer.Start(ctx, "dedupe.merge", trace.WithAttributes(
		attribute.String("source", source),
		attribute.String("keep", keep.Key()),
		attribute.String("delete", del.Key()),
	))
	defer func() { endSpan(span, err) }()

	started := time.Now()
	out, err = s.merger.Merge(ctx, keep, del)
	s.metrics.ObserveMerge(source, err, time.Since(started))
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveImageCarry(string(out.Image.Status))
	s.dropPendingContaining(del)
	return out, nil
}

func (s *dedupeService) replacePending(groups ...[]domain.DuplicateGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = map[string]domain.DuplicateGroup{}
	s.order = s.order[:0]
	for _, gs := range groups {
		for _, g := range gs {
			if _, ok := s.pending[g.Signature]; ok {
				continue
			}
			s.pending[g.Signature] = g
			s.order = append(s.order, g.Signature)
		}
	}
	s.metrics.SetPending(len(s.pending))
}

func (s *dedupeService) removePending(signature string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removePendingLocked(signature)
	s.metrics.SetPending(len(s.pending))
}

func (s *dedupeService) removePendingLocked(signature string) {
	if _, ok := s.pending[signature]; !ok {
		return
	}
	delete(s.pending, signature)
	for i, sig := range s.order {
		if sig == signature {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// dropPendingContaining removes pending groups that still list a deleted
// entity; they are stale until the next scan.
func (s *dedupeService) dropPendingContaining(ref domain.EntityRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stale []string
	for sig, g := range s.pending {
		for _, m := range g.Members {
			if m.Ref() == ref {
				stale = append(stale, sig)
				break
			}
		}
	}
	for _, sig := range stale {
		s.removePendingLocked(sig)
	}
	s.metrics.SetPending(len(s.pending))
}

func (s *dedupeService) Pending() []domain.DuplicateGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DuplicateGroup, 0, len(s.order))
	for _, sig := range s.order {
		out = append(out, s.pending[sig])
	}
	return out
}

func (s *dedupeService) PendingGroup(signature string) (domain.DuplicateGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.pending[signature]
	return g, ok
}

func checkSection(op string, section domain.MatchKind, group domain.DuplicateGroup) error {
	if section != group.Kind {
		return domain.Validation(op, fmt.Sprintf("group %q is %s, not %s", group.Signature, group.Kind, section))
	}
	if group.Signature == "" || len(group.Members) < 2 {
		return domain.Validation(op, "group needs a signature and at least two members")
	}
	return nil
}

func (s *dedupeService) Decide(ctx context.Context, section domain.MatchKind, group domain.DuplicateGroup, keepIndex, deleteIndex int) (*MergeResult, error) {
	const op = "decide"
	if err := checkSection(op, section, group); err != nil {
		return nil, err
	}
	sel := grouping.NewSelection(len(group.Members))
	if err := sel.ChooseKeep(keepIndex); err != nil {
		return nil, domain.Validation(op, err.Error())
	}
	if err := sel.ChooseDelete(deleteIndex); err != nil {
		return nil, domain.Validation(op, err.Error())
	}
	k, d, err := sel.Begin()
	if err != nil {
		return nil, domain.Validation(op, err.Error())
	}
	keep, del := group.Members[k].Ref(), group.Members[d].Ref()
	if keep == del {
		return nil, domain.Validation(op, "keep and delete refer to the same entity")
	}
	log := s.opLog(ctx, op).With("signature", group.Signature, "keep", keep.Key(), "delete", del.Key())

	out, err := s.execMerge(ctx, op, keep, del)
	sel.Complete(err)
	if err != nil {
		log.Warn("merge failed", "error", err)
		return nil, err
	}
	s.removePending(group.Signature)

	res := s.recordApproval(ctx, log, out, history.Decision{
		Signature:    group.Signature,
		Action:       domain.HistoryApproved,
		KeptCategory: keep.Category,
		Members:      group.Members,
	})
	log.Info("group merged", "state", sel.State(), "history_recorded", res.HistoryRecorded)
	return res, nil
}

// recordApproval stores the approval for a completed merge.
func (s *dedupeService) recordApproval(ctx context.Context, log *logger.Logger, out *merge.Outcome, d history.Decision) *MergeResult {
	res := &MergeResult{Outcome: out, Warnings: out.Warnings()}
	entry, err := s.history.Upsert(ctx, d)
	if err != nil {
		log.Error("merge succeeded but history was not recorded", "signature", d.Signature, "error", err)
		res.Warnings = append(res.Warnings, "merge history not recorded: "+err.Error())
		return res
	}
	res.History, res.HistoryRecorded = entry, true
	s.metrics.ObserveDecision(string(d.Action))
	return res
}

func (s *dedupeService) Decline(ctx context.Context, section domain.MatchKind, group domain.DuplicateGroup) (*domain.HistoryEntry, error) {
	const op = "decline"
	if err := checkSection(op, section, group); err != nil {
		return nil, err
	}
	entry, err := s.history.Upsert(ctx, history.Decision{
		Signature: group.Signature,
		Action:    domain.HistoryDeclined,
		Members:   group.Members,
	})
	if err != nil {
		return nil, err
	}
	s.removePending(group.Signature)
	s.metrics.ObserveDecision(string(domain.HistoryDeclined))
	s.opLog(ctx, op).Info("group declined", "signature", group.Signature)
	return entry, nil
}

func (s *dedupeService) ManualMerge(ctx context.Context, keep, del domain.EntityRef) (*MergeResult, error) {
	const op = "manual"
	log := s.opLog(ctx, "manual_merge").With("keep", keep.Key(), "delete", del.Key())
	out, err := s.execMerge(ctx, op, keep, del)
	if err != nil {
		log.Warn("manual merge failed", "error", err)
		return nil, err
	}
	res := s.recordApproval(ctx, log, out, history.Decision{
		Signature:    grouping.ManualSignature(keep, del),
		Action:       domain.HistoryApproved,
		KeptCategory: keep.Category,
	})
	log.Info("manual merge complete", "history_recorded", res.HistoryRecorded)
	return res, nil
}

func (s *dedupeService) Reclassify(ctx context.Context, src domain.EntityRef, to domain.Category) (res *MergeResult, err error) {
	ctx, span := s.tracer.Start(ctx, "dedupe.reclassify", trace.WithAttributes(
		attribute.String("source", src.Key()),
		attribute.String("target_category", string(to)),
	))
	defer func() { endSpan(span, err) }()

	started := time.Now()
	out, err := s.merger.Reclassify(ctx, src, to)
	s.metrics.ObserveMerge("reclassify", err, time.Since(started))
	if err != nil {
		s.opLog(ctx, "reclassify").Warn("reclassify failed", "source", src.Key(), "to", to, "error", err)
		return nil, err
	}
	s.metrics.ObserveImageCarry(string(out.Image.Status))
	s.dropPendingContaining(src)
	return &MergeResult{Outcome: out, Warnings: out.Warnings()}, nil
}

func (s *dedupeService) Search(ctx context.Context, q catalog.SearchQuery) ([]domain.CatalogEntity, error) {
	return s.reader.Search(ctx, q)
}

func (s *dedupeService) History(ctx context.Context) ([]*domain.HistoryEntry, error) {
	return s.history.List(ctx)
}

func (s *dedupeService) ForgetHistory(ctx context.Context, signature string) error {
	return s.history.Forget(ctx, signature)
}

func (s *dedupeService) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return err
	}
	s.opLog(ctx, "clear_history").Warn("merge history cleared")
	return nil
}

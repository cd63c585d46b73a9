// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopsphere/backend/internal/catalog"
	"github.com/shopsphere/backend/internal/models"
)

// CatalogStore is the subset of the catalog the engine reads. catalog.Store
// satisfies it; tests substitute mocks.
type CatalogStore interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListNonCancelledOrdersWithItems(ctx context.Context) ([]models.Order, error)
}

// Engine answers recommendation queries against atomically published model
// snapshots. Queries never block on a rebuild of the next model; the only
// blocking case is the very first query when no model exists yet.
type Engine struct {
	store  CatalogStore
	cfg    Config
	logger zerolog.Logger

	model   atomic.Pointer[Model]
	dirty   atomic.Bool
	version atomic.Uint64

	// buildMu serializes rebuilds. It is never held while serving reads
	// from an existing model.
	buildMu sync.Mutex
}

// NewEngine creates a recommendation engine over the given catalog.
//
//nolint:gocritic // hugeParam: config is copied once at construction
func NewEngine(store CatalogStore, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("new engine: store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	return &Engine{
		store:  store,
		cfg:    cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Invalidate marks the published model stale. The next query rebuilds before
// answering; queries racing with that rebuild serve the previous snapshot.
// Called from the order-completion path.
func (e *Engine) Invalidate() {
	e.dirty.Store(true)
	e.logger.Debug().Msg("Model invalidated")
}

// Rebuild builds both matrices from current catalog state and publishes the
// result atomically. On failure the previously published model, if any,
// stays in place.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	return e.rebuildLocked(ctx)
}

// rebuildLocked performs the build. Callers must hold buildMu.
func (e *Engine) rebuildLocked(ctx context.Context) error {
	start := time.Now()

	orders, err := e.store.ListNonCancelledOrdersWithItems(ctx)
	if err != nil {
		rebuildsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("rebuild: load orders: %w", err)
	}
	products, err := e.store.ListProducts(ctx)
	if err != nil {
		rebuildsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("rebuild: load products: %w", err)
	}

	next := &Model{
		CoOccurrence: buildCoOccurrence(orders),
		Similarity:   buildSimilarity(products, e.cfg.Similarity),
		OrderCount:   len(orders),
		ProductCount: len(products),
		Version:      e.version.Add(1),
		BuiltAt:      time.Now().UTC(),
	}

	e.model.Store(next)
	e.dirty.Store(false)

	elapsed := time.Since(start)
	rebuildsTotal.WithLabelValues("success").Inc()
	rebuildDuration.Observe(elapsed.Seconds())
	modelVersion.Set(float64(next.Version))
	coOccurrencePairs.Set(float64(next.CoOccurrence.Pairs()))
	similarityPairs.Set(float64(next.Similarity.Pairs()))

	e.logger.Info().
		Uint64("version", next.Version).
		Int("orders", next.OrderCount).
		Int("products", next.ProductCount).
		Int("co_occurrence_pairs", next.CoOccurrence.Pairs()).
		Int("similarity_pairs", next.Similarity.Pairs()).
		Dur("elapsed", elapsed).
		Msg("Model rebuilt")
	return nil
}

// ensureModel returns a model snapshot to answer the current query from,
// rebuilding lazily when none exists or the published one is stale. A stale
// model with a rebuild already in flight is served as-is rather than
// blocking the reader.
func (e *Engine) ensureModel(ctx context.Context) (*Model, error) {
	m := e.model.Load()
	if m != nil && !e.dirty.Load() {
		return m, nil
	}

	if m == nil {
		// First use: block until an initial model exists.
		e.buildMu.Lock()
		defer e.buildMu.Unlock()
		if cur := e.model.Load(); cur != nil && !e.dirty.Load() {
			return cur, nil
		}
		if err := e.rebuildLocked(ctx); err != nil {
			if cur := e.model.Load(); cur != nil {
				e.logger.Warn().Err(err).Msg("Rebuild failed, serving previous model")
				return cur, nil
			}
			return nil, err
		}
		return e.model.Load(), nil
	}

	// Stale model: rebuild unless another rebuild is already running.
	if e.buildMu.TryLock() {
		defer e.buildMu.Unlock()
		if e.dirty.Load() {
			if err := e.rebuildLocked(ctx); err != nil {
				e.logger.Warn().Err(err).Msg("Rebuild failed, serving previous model")
			}
		}
	}
	return e.model.Load(), nil
}

// Status reports the currently published model for operational endpoints.
func (e *Engine) Status() Status {
	m := e.model.Load()
	if m == nil {
		return Status{Stale: true}
	}
	return Status{
		Version:           m.Version,
		BuiltAt:           m.BuiltAt,
		OrderCount:        m.OrderCount,
		ProductCount:      m.ProductCount,
		CoOccurrencePairs: m.CoOccurrence.Pairs(),
		SimilarityPairs:   m.Similarity.Pairs(),
		Stale:             e.dirty.Load(),
	}
}

// ModelVersion returns the version of the published model, 0 when none.
func (e *Engine) ModelVersion() uint64 {
	if m := e.model.Load(); m != nil {
		return m.Version
	}
	return 0
}

// Recommend returns up to Limits.ProductK recommendations for a product.
//
// Three weighted signals are blended per candidate, each restricted to
// same or related categories: co-occurrence support at or above MinSupport,
// content similarity, and association-rule confidence. The blended scores
// then rank a strictly filtered candidate pool: exact same category, in
// stock, not the queried product, and not the same product type by the name
// heuristic. Candidates without a blended score fall back to keyword overlap
// with the queried product, then to popularity.
//
// Returns catalog.ErrProductNotFound when the product id does not exist.
// A product without a category yields an empty list.
func (e *Engine) Recommend(ctx context.Context, productID int64) ([]models.Product, error) {
	start := time.Now()
	defer func() { queryDuration.WithLabelValues("recommend").Observe(time.Since(start).Seconds()) }()

	product, err := e.store.GetProduct(ctx, productID)
	if err != nil {
		queriesTotal.WithLabelValues("recommend", "error").Inc()
		return nil, fmt.Errorf("recommend %d: %w", productID, err)
	}

	category := product.NormalizedCategory()
	if category == "" {
		queriesTotal.WithLabelValues("recommend", "empty").Inc()
		return []models.Product{}, nil
	}

	model, err := e.ensureModel(ctx)
	if err != nil {
		queriesTotal.WithLabelValues("recommend", "error").Inc()
		return nil, fmt.Errorf("recommend %d: %w", productID, err)
	}

	scores := e.blendScores(ctx, model, product, category)

	pool, err := e.strictCandidates(ctx, product, category)
	if err != nil {
		queriesTotal.WithLabelValues("recommend", "error").Inc()
		return nil, fmt.Errorf("recommend %d: %w", productID, err)
	}

	queryText := strings.ToLower(product.Name) + " " + strings.ToLower(product.Description)
	sort.SliceStable(pool, func(i, j int) bool {
		return e.lessCandidate(pool[i], pool[j], scores, queryText, true)
	})

	if len(pool) > e.cfg.Limits.ProductK {
		pool = pool[:e.cfg.Limits.ProductK]
	}
	queriesTotal.WithLabelValues("recommend", "success").Inc()
	return pool, nil
}

// blendScores combines the three signals for candidates in the same or a
// related category. Candidate lookup failures exclude the candidate, never
// the query.
func (e *Engine) blendScores(ctx context.Context, model *Model, product *models.Product, category string) map[int64]float64 {
	scores := make(map[int64]float64)

	gate := func(id int64) bool {
		p, err := e.store.GetProduct(ctx, id)
		if err != nil {
			return false
		}
		cat := p.NormalizedCategory()
		return e.cfg.Categories.SameCategory(category, cat) ||
			e.cfg.Categories.RelatedCategory(category, cat)
	}

	for id, support := range model.CoOccurrence.Row(product.ID) {
		if support >= e.cfg.MinSupport && gate(id) {
			scores[id] += support * e.cfg.Weights.CoOccurrence
		}
	}

	for id, sim := range model.Similarity.Row(product.ID) {
		if gate(id) {
			scores[id] += sim * e.cfg.Weights.Similarity
		}
	}

	// Association rules are mined fresh per query from current order
	// history, never cached.
	orders, err := e.store.ListNonCancelledOrdersWithItems(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Skipping association signal")
		return scores
	}
	for id, confidence := range mineAssociations(orders, product.ID, e.cfg.MinConfidence) {
		if gate(id) {
			scores[id] += confidence * e.cfg.Weights.Association
		}
	}
	return scores
}

// strictCandidates builds the presentation candidate pool: exact same
// category, in stock, excluding the queried product and same-type
// near-duplicates.
func (e *Engine) strictCandidates(ctx context.Context, product *models.Product, category string) ([]models.Product, error) {
	all, err := e.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	queryName := strings.ToLower(product.Name)
	pool := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.ID == product.ID || !p.InStock() {
			continue
		}
		if p.NormalizedCategory() != category {
			continue
		}
		if e.cfg.Categories.SameProductType(queryName, strings.ToLower(p.Name)) {
			continue
		}
		pool = append(pool, p)
	}
	return pool, nil
}

// lessCandidate orders two candidates: blended score first (scored
// candidates before unscored, higher score first), then keyword overlap
// when enabled, then popularity, then id for determinism.
func (e *Engine) lessCandidate(a, b models.Product, scores map[int64]float64, queryText string, useKeywords bool) bool {
	scoreA, okA := scores[a.ID]
	scoreB, okB := scores[b.ID]
	switch {
	case okA && okB:
		if scoreA != scoreB {
			return scoreA > scoreB
		}
	case okA:
		return true
	case okB:
		return false
	}

	if useKeywords {
		overlapA := e.cfg.Categories.KeywordOverlap(queryText, strings.ToLower(a.Name)+" "+strings.ToLower(a.Description))
		overlapB := e.cfg.Categories.KeywordOverlap(queryText, strings.ToLower(b.Name)+" "+strings.ToLower(b.Description))
		if overlapA != overlapB {
			return overlapA > overlapB
		}
	}

	popA := a.RatingValue() * float64(a.ReviewCount)
	popB := b.RatingValue() * float64(b.ReviewCount)
	if popA != popB {
		return popA > popB
	}
	return a.ID < b.ID
}

// FrequentlyBoughtTogether returns up to Limits.ProductK products from the
// co-occurrence signal alone, under the same strict presentation filter as
// Recommend but ranked by support then popularity, with no keyword tier.
//
// A missing product or empty category yields an empty list, not an error.
func (e *Engine) FrequentlyBoughtTogether(ctx context.Context, productID int64) ([]models.Product, error) {
	start := time.Now()
	defer func() {
		queryDuration.WithLabelValues("frequently_bought_together").Observe(time.Since(start).Seconds())
	}()

	product, err := e.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			queriesTotal.WithLabelValues("frequently_bought_together", "empty").Inc()
			return []models.Product{}, nil
		}
		queriesTotal.WithLabelValues("frequently_bought_together", "error").Inc()
		return nil, fmt.Errorf("frequently bought together %d: %w", productID, err)
	}

	category := product.NormalizedCategory()
	if category == "" {
		queriesTotal.WithLabelValues("frequently_bought_together", "empty").Inc()
		return []models.Product{}, nil
	}

	model, err := e.ensureModel(ctx)
	if err != nil {
		queriesTotal.WithLabelValues("frequently_bought_together", "error").Inc()
		return nil, fmt.Errorf("frequently bought together %d: %w", productID, err)
	}

	// Support scores restricted to exact same-category candidates.
	scores := make(map[int64]float64)
	for id, support := range model.CoOccurrence.Row(productID) {
		if support < e.cfg.MinSupport {
			continue
		}
		p, err := e.store.GetProduct(ctx, id)
		if err != nil {
			continue
		}
		if p.NormalizedCategory() == category {
			scores[id] = support
		}
	}

	pool, err := e.strictCandidates(ctx, product, category)
	if err != nil {
		queriesTotal.WithLabelValues("frequently_bought_together", "error").Inc()
		return nil, fmt.Errorf("frequently bought together %d: %w", productID, err)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return e.lessCandidate(pool[i], pool[j], scores, "", false)
	})

	if len(pool) > e.cfg.Limits.ProductK {
		pool = pool[:e.cfg.Limits.ProductK]
	}
	queriesTotal.WithLabelValues("frequently_bought_together", "success").Inc()
	return pool, nil
}

// CartRecommendations returns up to Limits.CartK products complementing the
// whole cart. Each cart member's co-occurrence row is summed over candidates
// outside the cart, divided by the distinct cart size (mean aggregation, so
// a candidate co-occurring with many cart items outranks one strong single
// pairing), filtered to in-stock products, and ranked by score.
//
// An empty cart yields an empty list.
func (e *Engine) CartRecommendations(ctx context.Context, productIDs []int64) ([]models.Product, error) {
	start := time.Now()
	defer func() {
		queryDuration.WithLabelValues("cart").Observe(time.Since(start).Seconds())
	}()

	cart := make(map[int64]struct{}, len(productIDs))
	for _, id := range productIDs {
		cart[id] = struct{}{}
	}
	if len(cart) == 0 {
		queriesTotal.WithLabelValues("cart", "empty").Inc()
		return []models.Product{}, nil
	}

	model, err := e.ensureModel(ctx)
	if err != nil {
		queriesTotal.WithLabelValues("cart", "error").Inc()
		return nil, fmt.Errorf("cart recommendations: %w", err)
	}

	aggregated := make(map[int64]float64)
	for id := range cart {
		for candidate, support := range model.CoOccurrence.Row(id) {
			if _, inCart := cart[candidate]; !inCart {
				aggregated[candidate] += support
			}
		}
	}
	cartSize := float64(len(cart))
	for id := range aggregated {
		aggregated[id] /= cartSize
	}

	type scored struct {
		id    int64
		score float64
	}
	ranked := make([]scored, 0, len(aggregated))
	for id, score := range aggregated {
		ranked = append(ranked, scored{id: id, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	out := make([]models.Product, 0, e.cfg.Limits.CartK)
	for _, c := range ranked {
		if len(out) == e.cfg.Limits.CartK {
			break
		}
		p, err := e.store.GetProduct(ctx, c.id)
		if err != nil {
			// Candidate vanished since the model was built.
			continue
		}
		if !p.InStock() {
			continue
		}
		out = append(out, *p)
	}
	queriesTotal.WithLabelValues("cart", "success").Inc()
	return out, nil
}

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"campstation/internal/app/dto"
	domainpricing "campstation/internal/domain/pricing"
)

// RuleRepository serves a rule snapshot held in memory.
type RuleRepository struct {
	mu     sync.RWMutex
	bySite map[int64][]domainpricing.Rule
}

func NewRuleRepository(rules []domainpricing.Rule) *RuleRepository {
	repo := &RuleRepository{}
	repo.Replace(rules)
	return repo
}

// Replace swaps the whole snapshot.
func (r *RuleRepository) Replace(rules []domainpricing.Rule) {
	bySite := make(map[int64][]domainpricing.Rule)
	for _, rule := range rules {
		bySite[rule.SiteID] = append(bySite[rule.SiteID], rule)
	}
	r.mu.Lock()
	r.bySite = bySite
	r.mu.Unlock()
}

func (r *RuleRepository) BySite(_ context.Context, siteID int64) ([]domainpricing.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domainpricing.Rule(nil), r.bySite[siteID]...), nil
}

func (r *RuleRepository) ActiveBySite(_ context.Context, siteID int64) ([]domainpricing.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domainpricing.Rule
	for _, rule := range r.bySite[siteID] {
		if rule.Active {
			out = append(out, rule)
		}
	}
	return out, nil
}

// Sites lists the site ids present in the snapshot.
func (r *RuleRepository) Sites() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int64, 0, len(r.bySite))
	for id := range r.bySite {
		out = append(out, id)
	}
	return out
}

// DecodeRules reads a JSON array of site rules.
func DecodeRules(reader io.Reader) ([]domainpricing.Rule, error) {
	var records []dto.SiteRule
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode rule fixtures: %w", err)
	}
	rules := make([]domainpricing.Rule, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate rule id %d", domainpricing.ErrRuleConfiguration, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		rule, err := rec.ToDomain()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// FixtureSource opens a rule snapshot.
type FixtureSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Describe() string
}

// FileFixtureSource reads the snapshot from the local filesystem.
type FileFixtureSource struct {
	Path string
}

func (s FileFixtureSource) Open(context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

func (s FileFixtureSource) Describe() string {
	return "file:" + s.Path
}

// LoadRules opens src and decodes its rules.
func LoadRules(ctx context.Context, src FixtureSource) ([]domainpricing.Rule, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Describe(), err)
	}
	defer rc.Close()
	return DecodeRules(rc)
}

var _ domainpricing.RuleRepository = (*RuleRepository)(nil)

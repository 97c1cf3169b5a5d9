package cfd_rule_dig

import (
	"sync"

	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
)

// RuleRepository 按发现顺序保存规则
type RuleRepository struct {
	mu    sync.RWMutex
	rules []*global_variables.Rule
}

func NewRuleRepository() *RuleRepository {
	return &RuleRepository{}
}

func (r *RuleRepository) Add(rules ...*global_variables.Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range rules {
		if rule.Ree == "" {
			rule.Ree = CreateRuleRee(rule)
		}
		r.rules = append(r.rules, rule)
	}
}

func (r *RuleRepository) Rules() []*global_variables.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*global_variables.Rule(nil), r.rules...)
}

func (r *RuleRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

func (r *RuleRepository) Rees() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rees := make([]string, len(r.rules))
	for i, rule := range r.rules {
		rees[i] = rule.Ree
	}
	return rees
}

// Indicators 规则的 support 和 confidence, 顺序和 Rules 一致
func (r *RuleRepository) Indicators() (supports, confidences []float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	supports = make([]float64, len(r.rules))
	confidences = make([]float64, len(r.rules))
	for i, rule := range r.rules {
		supports[i] = rule.CR
		confidences[i] = rule.FTR
	}
	return
}

package feature

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"

	"github.com/dmitrymomot/waffle/pkg/environment"
)

// AlwaysStrategy returns a constant.
type AlwaysStrategy struct {
	Value bool
}

// Evaluate returns the configured value for all contexts.
func (s *AlwaysStrategy) Evaluate(ctx context.Context) (bool, error) {
	return s.Value, nil
}

// NewAlwaysOnStrategy enables the flag for every context.
func NewAlwaysOnStrategy() Strategy {
	return &AlwaysStrategy{Value: true}
}

// NewAlwaysOffStrategy disables the flag for every context.
func NewAlwaysOffStrategy() Strategy {
	return &AlwaysStrategy{Value: false}
}

// TargetedStrategy enables a feature for chosen users, groups or a stable
// percentage of users. The deny list wins over everything; an unknown user
// is denied whenever a deny list exists.
type TargetedStrategy struct {
	Criteria TargetCriteria

	userIDExtractor     UserIDExtractor
	userGroupsExtractor UserGroupsExtractor
}

// Evaluate applies the criteria to the user carried by ctx.
func (s *TargetedStrategy) Evaluate(ctx context.Context) (bool, error) {
	c := s.Criteria
	if c.UserIDs == nil && c.Groups == nil && c.Percentage == nil &&
		c.AllowList == nil && c.DenyList == nil {
		return false, ErrInvalidStrategy
	}

	var user string
	if s.userIDExtractor != nil {
		user = s.userIDExtractor(ctx)
	}

	switch {
	case len(c.DenyList) > 0 && (user == "" || slices.Contains(c.DenyList, user)):
		return false, nil
	case user != "" && (slices.Contains(c.AllowList, user) || slices.Contains(c.UserIDs, user)):
		return true, nil
	case s.inGroup(ctx):
		return true, nil
	case c.Percentage != nil:
		return bucket(user, *c.Percentage)
	}
	return false, nil
}

func (s *TargetedStrategy) inGroup(ctx context.Context) bool {
	if len(s.Criteria.Groups) == 0 || s.userGroupsExtractor == nil {
		return false
	}
	return slices.ContainsFunc(s.userGroupsExtractor(ctx), func(g string) bool {
		return slices.Contains(s.Criteria.Groups, g)
	})
}

// bucket places user in one of 100 buckets. FNV-1a keeps a user in the
// same bucket across initialization cycles and processes.
func bucket(user string, percentage int) (bool, error) {
	switch {
	case percentage < 0 || percentage > 100:
		return false, errors.Join(ErrInvalidStrategy,
			fmt.Errorf("percentage must be between 0 and 100, got %d", percentage))
	case percentage == 0, user == "" && percentage < 100:
		return false, nil
	case percentage == 100:
		return true, nil
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(user))
	return int(h.Sum32()%100) < percentage, nil
}

// TargetedStrategyOption is a function that configures a TargetedStrategy.
type TargetedStrategyOption func(*TargetedStrategy)

// WithUserIDExtractor sets the user ID extractor for the strategy.
func WithUserIDExtractor(extractor UserIDExtractor) TargetedStrategyOption {
	return func(s *TargetedStrategy) {
		s.userIDExtractor = extractor
	}
}

// WithUserGroupsExtractor sets the user groups extractor for the strategy.
func WithUserGroupsExtractor(extractor UserGroupsExtractor) TargetedStrategyOption {
	return func(s *TargetedStrategy) {
		s.userGroupsExtractor = extractor
	}
}

// NewTargetedStrategy creates a strategy based on targeting criteria.
func NewTargetedStrategy(criteria TargetCriteria, opts ...TargetedStrategyOption) Strategy {
	s := &TargetedStrategy{
		Criteria: criteria,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// EnvironmentStrategy enables a flag only in the listed environments.
type EnvironmentStrategy struct {
	EnabledEnvironments []string

	environmentExtractor EnvironmentExtractor
}

// Evaluate checks the environment carried by the context. Without an explicit
// extractor the value set by the environment middleware is used.
func (s *EnvironmentStrategy) Evaluate(ctx context.Context) (bool, error) {
	if len(s.EnabledEnvironments) == 0 {
		return false, ErrInvalidStrategy
	}

	extract := s.environmentExtractor
	if extract == nil {
		extract = environment.FromContext
	}

	env := extract(ctx)
	if env == "" {
		return false, nil
	}
	return slices.Contains(s.EnabledEnvironments, env), nil
}

// EnvironmentStrategyOption configures an EnvironmentStrategy.
type EnvironmentStrategyOption func(*EnvironmentStrategy)

// WithEnvironmentExtractor overrides how the environment is read from context.
func WithEnvironmentExtractor(extractor EnvironmentExtractor) EnvironmentStrategyOption {
	return func(s *EnvironmentStrategy) {
		s.environmentExtractor = extractor
	}
}

// NewEnvironmentStrategy creates a strategy that enables features in specific environments.
func NewEnvironmentStrategy(environments []string, opts ...EnvironmentStrategyOption) Strategy {
	s := &EnvironmentStrategy{EnabledEnvironments: environments}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Operator joins the results of a CompositeStrategy.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
)

// CompositeStrategy combines child strategies with AND or OR semantics.
// Evaluation short-circuits and the first child error is returned.
type CompositeStrategy struct {
	Strategies []Strategy
	Operator   Operator
}

// Evaluate combines the results of the child strategies.
func (s *CompositeStrategy) Evaluate(ctx context.Context) (bool, error) {
	if len(s.Strategies) == 0 {
		return false, ErrInvalidStrategy
	}

	var stopOn bool
	switch s.Operator {
	case OperatorAnd:
		stopOn = false
	case OperatorOr:
		stopOn = true
	default:
		return false, errors.Join(ErrInvalidStrategy,
			errors.New("composite operator must be 'and' or 'or'"))
	}

	for _, strategy := range s.Strategies {
		enabled, err := strategy.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if enabled == stopOn {
			return stopOn, nil
		}
	}
	return !stopOn, nil
}

// NewAndStrategy requires all child strategies to return true.
func NewAndStrategy(strategies ...Strategy) Strategy {
	return &CompositeStrategy{Strategies: strategies, Operator: OperatorAnd}
}

// NewOrStrategy requires at least one child strategy to return true.
func NewOrStrategy(strategies ...Strategy) Strategy {
	return &CompositeStrategy{Strategies: strategies, Operator: OperatorOr}
}

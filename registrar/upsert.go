package registrar

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/aws/smithy-go"
)

// Outcome is the terminal state of an upsert.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	OutcomeRecovered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeRecovered:
		return "recovered"
	default:
		return "failed"
	}
}

// Step names one control-plane call in the chain.
type Step string

const (
	StepCreate Step = "create"
	StepUpdate Step = "update"
	StepList   Step = "list"
)

// Attempt records a single step.
type Attempt struct {
	Step Step
	ARN  string
	Err  error
}

// Result is the tagged result of Upsert.
type Result struct {
	Outcome  Outcome
	ARN      string
	Attempts []Attempt
}

// OK reports whether an ARN was obtained.
func (r Result) OK() bool {
	return r.Outcome != OutcomeFailed
}

var (
	errEmptyARN    = errors.New("response did not include a credential provider ARN")
	errNotInListed = errors.New("provider not found in listing")
)

// Upsert runs create, then update on conflict, then list when the update
// yields no ARN. Update results are discarded on error so a stale ARN is
// never reported.
func Upsert(ctx context.Context, p Provider) Result {
	var res Result

	arn, err := p.Create(ctx)
	if err == nil && arn == "" {
		err = errEmptyARN
	}
	res.Attempts = append(res.Attempts, Attempt{Step: StepCreate, ARN: arn, Err: err})
	switch {
	case err == nil:
		res.Outcome, res.ARN = OutcomeCreated, arn
		return res
	case errors.Is(err, errEmptyARN):
		// Created but unidentified; recover the ARN by listing.
		return list(ctx, p, res)
	case !IsConflict(err):
		return res
	}

	arn, err = p.Update(ctx)
	if err == nil && arn == "" {
		err = errEmptyARN
	}
	if err != nil {
		arn = ""
	}
	res.Attempts = append(res.Attempts, Attempt{Step: StepUpdate, ARN: arn, Err: err})
	if err == nil {
		res.Outcome, res.ARN = OutcomeUpdated, arn
		return res
	}

	return list(ctx, p, res)
}

func list(ctx context.Context, p Provider, res Result) Result {
	summaries, err := p.List(ctx)
	if err != nil {
		res.Attempts = append(res.Attempts, Attempt{Step: StepList, Err: err})
		return res
	}
	for _, s := range summaries {
		if s.Name == p.Name() && s.ARN != "" {
			res.Attempts = append(res.Attempts, Attempt{Step: StepList, ARN: s.ARN})
			res.Outcome, res.ARN = OutcomeRecovered, s.ARN
			return res
		}
	}
	res.Attempts = append(res.Attempts, Attempt{Step: StepList, Err: errNotInListed})
	return res
}

// IsConflict reports whether err means a provider with the same name
// already exists.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var conflict *types.ConflictException
	if errors.As(err, &conflict) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if strings.Contains(apiErr.ErrorCode(), "ConflictException") {
			return true
		}
		if strings.Contains(strings.ToLower(apiErr.ErrorMessage()), "already exists") {
			return true
		}
	}
	return false
}

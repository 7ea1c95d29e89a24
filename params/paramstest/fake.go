// Package paramstest provides an in-memory parameter store for tests.
package paramstest

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// Entry is a stored parameter.
type Entry struct {
	Value       string
	Type        types.ParameterType
	Description string
	Version     int64
}

// FakeSSM implements params.SSMAPI in memory.
type FakeSSM struct {
	mu      sync.Mutex
	entries map[string]Entry

	// GetErr, when set, is returned by GetParameter for every name.
	GetErr error
	// PutErr, when set, is returned by PutParameter.
	PutErr error

	Gets []string
	Puts []string
}

// New returns a FakeSSM seeded with plain-string values.
func New(values map[string]string) *FakeSSM {
	f := &FakeSSM{entries: make(map[string]Entry)}
	for k, v := range values {
		f.entries[k] = Entry{Value: v, Type: types.ParameterTypeString, Version: 1}
	}
	return f
}

// Entry returns the stored entry for name.
func (f *FakeSSM) Entry(name string) (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[name]
	return e, ok
}

// GetParameter implements params.SSMAPI.
func (f *FakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(in.Name)
	f.Gets = append(f.Gets, name)
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	e, ok := f.entries[name]
	if !ok {
		return nil, &types.ParameterNotFound{Message: aws.String("parameter " + name + " not found")}
	}
	if e.Type == types.ParameterTypeSecureString && !aws.ToBool(in.WithDecryption) {
		return &ssm.GetParameterOutput{Parameter: &types.Parameter{
			Name:  aws.String(name),
			Type:  e.Type,
			Value: aws.String("ciphertext"),
		}}, nil
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name:    aws.String(name),
		Type:    e.Type,
		Value:   aws.String(e.Value),
		Version: e.Version,
	}}, nil
}

// PutParameter implements params.SSMAPI.
func (f *FakeSSM) PutParameter(_ context.Context, in *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(in.Name)
	f.Puts = append(f.Puts, name)
	if f.PutErr != nil {
		return nil, f.PutErr
	}
	prev, exists := f.entries[name]
	if exists && !aws.ToBool(in.Overwrite) {
		return nil, &types.ParameterAlreadyExists{Message: aws.String("parameter " + name + " already exists")}
	}
	e := Entry{
		Value:       aws.ToString(in.Value),
		Type:        in.Type,
		Description: aws.ToString(in.Description),
		Version:     prev.Version + 1,
	}
	f.entries[name] = e
	return &ssm.PutParameterOutput{Version: e.Version}, nil
}

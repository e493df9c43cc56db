// internal/common/camunda/outcome.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"country-match-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// outcomeClient records the status of the first job command that is sent
// without error.
type outcomeClient struct {
	worker.JobClient
	status string
}

func (c *outcomeClient) record(status string, err error) {
	if err == nil && c.status == "" {
		c.status = status
	}
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return completeStep1{next: c.JobClient.NewCompleteJobCommand(), c: c}
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return failStep1{next: c.JobClient.NewFailJobCommand(), c: c}
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return throwStep1{next: c.JobClient.NewThrowErrorCommand(), c: c}
}

// ==========================
// Complete
// ==========================

type completeStep1 struct {
	next commands.CompleteJobCommandStep1
	c    *outcomeClient
}

func (s completeStep1) JobKey(key int64) commands.CompleteJobCommandStep2 {
	return completeStep2{next: s.next.JobKey(key), c: s.c}
}

type completeStep2 struct {
	next commands.CompleteJobCommandStep2
	c    *outcomeClient
}

func (s completeStep2) Send(ctx context.Context) (*pb.CompleteJobResponse, error) {
	return completeDispatch{next: s.next, c: s.c}.Send(ctx)
}

func (s completeStep2) wrap(d commands.DispatchCompleteJobCommand, err error) (commands.DispatchCompleteJobCommand, error) {
	if err != nil {
		return nil, err
	}
	return completeDispatch{next: d, c: s.c}, nil
}

func (s completeStep2) VariablesFromString(v string) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.next.VariablesFromString(v))
}

func (s completeStep2) VariablesFromStringer(v fmt.Stringer) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.next.VariablesFromStringer(v))
}

func (s completeStep2) VariablesFromMap(v map[string]interface{}) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.next.VariablesFromMap(v))
}

func (s completeStep2) VariablesFromObject(v interface{}) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.next.VariablesFromObject(v))
}

func (s completeStep2) VariablesFromObjectIgnoreOmitempty(v interface{}) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.next.VariablesFromObjectIgnoreOmitempty(v))
}

type completeDispatch struct {
	next commands.DispatchCompleteJobCommand
	c    *outcomeClient
}

func (d completeDispatch) Send(ctx context.Context) (*pb.CompleteJobResponse, error) {
	resp, err := d.next.Send(ctx)
	d.c.record(observability.StatusCompleted, err)
	return resp, err
}

// ==========================
// Fail
// ==========================

type failStep1 struct {
	next commands.FailJobCommandStep1
	c    *outcomeClient
}

func (s failStep1) JobKey(key int64) commands.FailJobCommandStep2 {
	return failStep2{next: s.next.JobKey(key), c: s.c}
}

type failStep2 struct {
	next commands.FailJobCommandStep2
	c    *outcomeClient
}

func (s failStep2) Retries(n int32) commands.FailJobCommandStep3 {
	return failStep3{next: s.next.Retries(n), c: s.c}
}

type failStep3 struct {
	next commands.FailJobCommandStep3
	c    *outcomeClient
}

func (s failStep3) Send(ctx context.Context) (*pb.FailJobResponse, error) {
	return failDispatch{next: s.next, c: s.c}.Send(ctx)
}

func (s failStep3) RetryBackoff(d time.Duration) commands.FailJobCommandStep3 {
	return failStep3{next: s.next.RetryBackoff(d), c: s.c}
}

func (s failStep3) ErrorMessage(msg string) commands.FailJobCommandStep3 {
	return failStep3{next: s.next.ErrorMessage(msg), c: s.c}
}

func (s failStep3) wrap(d commands.DispatchFailJobCommand, err error) (commands.DispatchFailJobCommand, error) {
	if err != nil {
		return nil, err
	}
	return failDispatch{next: d, c: s.c}, nil
}

func (s failStep3) VariablesFromString(v string) (commands.DispatchFailJobCommand, error) {
	return s.wrap(s.next.VariablesFromString(v))
}

func (s failStep3) VariablesFromStringer(v fmt.Stringer) (commands.DispatchFailJobCommand, error) {
	return s.wrap(s.next.VariablesFromStringer(v))
}

func (s failStep3) VariablesFromMap(v map[string]interface{}) (commands.DispatchFailJobCommand, error) {
	return s.wrap(s.next.VariablesFromMap(v))
}

func (s failStep3) VariablesFromObject(v interface{}) (commands.DispatchFailJobCommand, error) {
	return s.wrap(s.next.VariablesFromObject(v))
}

func (s failStep3) VariablesFromObjectIgnoreOmitempty(v interface{}) (commands.DispatchFailJobCommand, error) {
	return s.wrap(s.next.VariablesFromObjectIgnoreOmitempty(v))
}

type failDispatch struct {
	next commands.DispatchFailJobCommand
	c    *outcomeClient
}

func (d failDispatch) Send(ctx context.Context) (*pb.FailJobResponse, error) {
	resp, err := d.next.Send(ctx)
	d.c.record(observability.StatusFailed, err)
	return resp, err
}

// ==========================
// Throw error
// ==========================

type throwStep1 struct {
	next commands.ThrowErrorCommandStep1
	c    *outcomeClient
}

func (s throwStep1) JobKey(key int64) commands.ThrowErrorCommandStep2 {
	return throwStep2{next: s.next.JobKey(key), c: s.c}
}

type throwStep2 struct {
	next commands.ThrowErrorCommandStep2
	c    *outcomeClient
}

func (s throwStep2) ErrorCode(code string) commands.DispatchThrowErrorCommand {
	return throwDispatch{next: s.next.ErrorCode(code), c: s.c}
}

type throwDispatch struct {
	next commands.DispatchThrowErrorCommand
	c    *outcomeClient
}

func (d throwDispatch) ErrorMessage(msg string) commands.DispatchThrowErrorCommand {
	return throwDispatch{next: d.next.ErrorMessage(msg), c: d.c}
}

func (d throwDispatch) wrap(next commands.DispatchThrowErrorCommand, err error) (commands.DispatchThrowErrorCommand, error) {
	if err != nil {
		return nil, err
	}
	return throwDispatch{next: next, c: d.c}, nil
}

func (d throwDispatch) VariablesFromString(v string) (commands.DispatchThrowErrorCommand, error) {
	return d.wrap(d.next.VariablesFromString(v))
}

func (d throwDispatch) VariablesFromStringer(v fmt.Stringer) (commands.DispatchThrowErrorCommand, error) {
	return d.wrap(d.next.VariablesFromStringer(v))
}

func (d throwDispatch) VariablesFromMap(v map[string]interface{}) (commands.DispatchThrowErrorCommand, error) {
	return d.wrap(d.next.VariablesFromMap(v))
}

func (d throwDispatch) VariablesFromObject(v interface{}) (commands.DispatchThrowErrorCommand, error) {
	return d.wrap(d.next.VariablesFromObject(v))
}

func (d throwDispatch) VariablesFromObjectIgnoreOmitempty(v interface{}) (commands.DispatchThrowErrorCommand, error) {
	return d.wrap(d.next.VariablesFromObjectIgnoreOmitempty(v))
}

func (d throwDispatch) Send(ctx context.Context) (*pb.ThrowErrorResponse, error) {
	resp, err := d.next.Send(ctx)
	d.c.record(observability.StatusFailed, err)
	return resp, err
}

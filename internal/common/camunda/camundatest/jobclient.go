// Package camundatest provides an in-memory worker.JobClient for handler tests.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// Gateway records the job commands sent through it. When Err is set every
// job command is rejected with it and nothing is recorded.
type Gateway struct {
	pb.GatewayClient

	Err error

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (g *Gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

// JobClient builds real zeebe commands on top of a recording Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

func (c *JobClient) Completed() []*pb.CompleteJobRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), c.Gateway.completed...)
}

func (c *JobClient) Failed() []*pb.FailJobRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), c.Gateway.failed...)
}

func (c *JobClient) Thrown() []*pb.ThrowErrorRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), c.Gateway.thrown...)
}

// DecodeCompleted unmarshals the variables of the last completed job into v.
// It reports false when no job was completed.
func (c *JobClient) DecodeCompleted(v interface{}) (bool, error) {
	completed := c.Completed()
	if len(completed) == 0 {
		return false, nil
	}
	return true, json.Unmarshal([]byte(completed[len(completed)-1].Variables), v)
}

// NewJob builds an activated job whose variables are vars encoded as JSON.
// vars may also be a raw JSON string.
func NewJob(taskType string, key int64, retries int32, vars interface{}) entities.Job {
	var variables string
	switch v := vars.(type) {
	case string:
		variables = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		variables = string(data)
	}

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               taskType,
		ProcessInstanceKey: key * 10,
		Retries:            retries,
		Variables:          variables,
	}}
}

/*
Package json encodes queue tasks as JSON documents that carry the
dataset the tree has to be grown from.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"

	dsjson "github.com/pbanos/sprout/dataset/json"
	"github.com/pbanos/sprout/queue"
)

/*
TaskEncodeDecoder is an interface for objects
that allow encoding tasks as slices of bytes and decoding
them back to tasks. It is used to serialize tasks into a
representation to store on redis.
*/
type TaskEncodeDecoder interface {

	//Encode receives a *queue.Task
	// and returns a slice of bytes with the task encoded or an
	//error if the encoding could not be performed for
	//some reason. Its counterpart is Decode.
	Encode(context.Context, *queue.Task) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *queue.Task decoded from the slice of bytes
	//or an error if the decoding could not be performed
	//for some reason.
	Decode(context.Context, []byte) (*queue.Task, error)
}

type jsonEncodeDecoder struct{}

type jsonTask struct {
	Forest    string          `json:"forest"`
	Index     int             `json:"index"`
	MaxDepth  int             `json:"maxDepth"`
	Criterion string          `json:"criterion"`
	Dataset   json.RawMessage `json:"ds"`
}

// New returns a TaskEncodeDecoder that encodes tasks as JSON objects
func New() TaskEncodeDecoder {
	return &jsonEncodeDecoder{}
}

func (jed *jsonEncodeDecoder) Encode(ctx context.Context, t *queue.Task) ([]byte, error) {
	if t.Dataset == nil {
		return nil, fmt.Errorf("encoding task %s as json: task has no dataset", t.ID())
	}
	jt := &jsonTask{Forest: t.Forest, Index: t.Index, MaxDepth: t.MaxDepth, Criterion: t.Criterion}
	denc, err := dsjson.Encode(t.Dataset)
	if err != nil {
		return nil, fmt.Errorf("encoding task %s as json: %v", t.ID(), err)
	}
	jt.Dataset = denc
	return json.Marshal(jt)
}

func (jed *jsonEncodeDecoder) Decode(ctx context.Context, data []byte) (*queue.Task, error) {
	jt := &jsonTask{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, fmt.Errorf("decoding task from json: %v", err)
	}
	if jt.Forest == "" {
		return nil, fmt.Errorf("decoding json task: no forest id")
	}
	t := &queue.Task{Forest: jt.Forest, Index: jt.Index, MaxDepth: jt.MaxDepth, Criterion: jt.Criterion}
	t.Dataset, err = dsjson.Decode(jt.Dataset)
	if err != nil {
		return nil, fmt.Errorf("decoding json task: decoding task dataset: %v", err)
	}
	return t, nil
}

package frame

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/model"
)

type stubFrame struct {
	meta Metadata
}

func (s stubFrame) Metadata() Metadata { return s.meta }
func (s stubFrame) Prepare(ctx context.Context, pctx Context) error { return nil }
func (s stubFrame) Execute(ctx context.Context, batch Batch, pctx Context) (*model.FrameResult, error) {
	return &model.FrameResult{FrameID: s.meta.ID}, nil
}

func TestRegistry_RejectsDuplicateID(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubFrame{meta: Metadata{ID: "security", Name: "Security"}}))
	err := r.Register(stubFrame{meta: Metadata{ID: "security", Name: "Security Again"}})
	assert.Error(t, err)
}

func TestRegistry_OrderedByPriorityThenBlockerThenName(t *testing.T) {
	r := NewRegistry()
	frames := []stubFrame{
		{meta: Metadata{ID: "b", Name: "b", Priority: model.PriorityLow}},
		{meta: Metadata{ID: "a", Name: "a", Priority: model.PriorityCritical, IsBlocker: true}},
		{meta: Metadata{ID: "c", Name: "c", Priority: model.PriorityCritical, IsBlocker: false}},
		{meta: Metadata{ID: "d", Name: "d", Priority: model.PriorityHigh}},
	}
	for _, f := range frames {
		require.NoError(t, r.Register(f))
	}

	ordered := r.Ordered(nil, nil)
	var ids []string
	for _, f := range ordered {
		ids = append(ids, f.Metadata().ID)
	}
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids)
}

func TestRegistry_EnabledDisabledFiltering(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubFrame{meta: Metadata{ID: "a", Name: "a"}}))
	require.NoError(t, r.Register(stubFrame{meta: Metadata{ID: "b", Name: "b"}}))

	ordered := r.Ordered(nil, map[string]bool{"b": true})
	assert.Len(t, ordered, 1)
	assert.Equal(t, "a", ordered[0].Metadata().ID)
}

package mqtt

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/potability-go/internal/datastore"
	"github.com/tphakala/potability-go/internal/errors"
)

func testRecord() *datastore.WaterQuality {
	return &datastore.WaterQuality{
		ID:              12,
		PH:              7.1,
		Hardness:        150,
		Solids:          20000,
		Chloramines:     7,
		Sulfate:         300,
		Conductivity:    500,
		OrganicCarbon:   15,
		Trihalomethanes: 80,
		Turbidity:       4,
		Potability:      1,
	}
}

func TestPublishRecordPayload(t *testing.T) {
	client := &mockClient{}
	var captured []byte
	client.On("Publish", mock.Anything, "potability/records", mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).([]byte) }).
		Return(nil).Once()

	p := NewPublisher(client, "potability/records", "plant-a", testLogger())
	p.PublishRecord(context.Background(), testRecord())

	client.AssertExpectations(t)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(captured, &payload))
	assert.InDelta(t, 12, payload["id"], 0)
	assert.InDelta(t, 7.1, payload["ph"], 1e-9)
	assert.InDelta(t, 1, payload["potability"], 0)
	assert.Equal(t, "plant-a", payload["source"])
	assert.Contains(t, payload, "timestamp")
	assert.NotContains(t, payload, "CreatedAt")
}

func TestPublishRecordSwallowsErrors(t *testing.T) {
	client := &mockClient{}
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.NewStd("broker unavailable")).Once()

	p := NewPublisher(client, "t", "s", testLogger())
	assert.NotPanics(t, func() { p.PublishRecord(context.Background(), testRecord()) })
	client.AssertExpectations(t)
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() { p.PublishRecord(context.Background(), testRecord()) })

	client := &mockClient{}
	p = NewPublisher(client, "t", "s", testLogger())
	p.PublishRecord(context.Background(), nil)
	client.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	Generation string `json:"generation"`
	Documents  int    `json:"documents"`
}

func TestEncodeEvents(t *testing.T) {
	msgs, err := encodeEvents([]Event{
		{Key: "g1", Value: published{Generation: "g1", Documents: 5}},
		{Key: "g2", Value: published{Generation: "g2"}},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "g1", string(msgs[0].Key))
	assert.JSONEq(t, `{"generation":"g1","documents":5}`, string(msgs[0].Value))

	decoded, err := DecodeJSON[published](msgs[1].Value)
	require.NoError(t, err)
	assert.Equal(t, "g2", decoded.Generation)
}

func TestEncodeEvents_Unmarshalable(t *testing.T) {
	_, err := encodeEvents([]Event{{Key: "bad", Value: make(chan int)}})
	assert.Error(t, err)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := DecodeJSON[published]([]byte("not json"))
	assert.ErrorContains(t, err, "decoding kafka message")
}

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalDeliversToAllSubscribers(t *testing.T) {
	s := NewSignal[string]()

	var got []string
	s.Subscribe(func(v string) { got = append(got, "a:"+v) })
	s.Subscribe(func(v string) { got = append(got, "b:"+v) })

	s.Publish("hello")

	assert.Equal(t, []string{"a:hello", "b:hello"}, got)
}

func TestSignalUnsubscribe(t *testing.T) {
	s := NewSignal[int]()

	var calls int
	unsubscribe := s.Subscribe(func(int) { calls++ })

	s.Publish(1)
	unsubscribe()
	s.Publish(2)

	assert.Equal(t, 1, calls)
}

func TestSignalPublishWithoutSubscribers(t *testing.T) {
	s := NewSignal[struct{}]()

	// Must not panic or block.
	s.Publish(struct{}{})
}

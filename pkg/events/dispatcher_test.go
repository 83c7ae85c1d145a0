/**
 *
 * (c) Copyright Ascensio System SIA 2023
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubListener struct {
	tag   string
	calls *[]string
	stop  bool
	err   error
}

func (l *stubListener) Handle(event Event, eventName string, dispatcher Dispatcher) error {
	*l.calls = append(*l.calls, l.tag)
	if l.stop {
		event.StopPropagation()
	}
	return l.err
}

type registeringListener struct {
	calls *[]string
	next  Listener
}

func (l *registeringListener) Handle(event Event, eventName string, dispatcher Dispatcher) error {
	*l.calls = append(*l.calls, "registrar")
	return dispatcher.AddListener(eventName, l.next, 100)
}

func TestEventDispatcher(t *testing.T) {
	t.Run("orders listeners by descending priority with insertion order ties", func(t *testing.T) {
		var calls []string
		dispatcher := NewEventDispatcher()

		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "default", calls: &calls}, 0))
		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "high-a", calls: &calls}, 10))
		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "low", calls: &calls}, -5))
		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "high-b", calls: &calls}, 10))

		_, err := dispatcher.Dispatch("user.created", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"high-a", "high-b", "default", "low"}, calls)
	})

	t.Run("stamps name and dispatcher over caller values", func(t *testing.T) {
		dispatcher := NewEventDispatcher()
		carrier := NewBasicEvent()
		carrier.SetName("stale.name")

		event, err := dispatcher.Dispatch("user.created", carrier)

		require.NoError(t, err)
		assert.Same(t, carrier, event)
		assert.Equal(t, "user.created", event.Name())
		assert.Same(t, dispatcher, event.Dispatcher().(*EventDispatcher))
		assert.False(t, event.IsPropagationStopped())
	})

	t.Run("builds a default carrier when none is supplied", func(t *testing.T) {
		dispatcher := NewEventDispatcher()

		event, err := dispatcher.Dispatch("user.created", nil)

		require.NoError(t, err)
		require.IsType(t, &BasicEvent{}, event)
		assert.Equal(t, "user.created", event.Name())
	})

	t.Run("add then remove leaves the event unknown", func(t *testing.T) {
		var calls []string
		listener := &stubListener{tag: "once", calls: &calls}
		dispatcher := NewEventDispatcher()

		require.NoError(t, dispatcher.AddListener("user.created", listener, 3))
		require.NoError(t, dispatcher.RemoveListener("user.created", listener))

		has, err := dispatcher.HasListeners("user.created")
		require.NoError(t, err)
		assert.False(t, has)
		assert.Empty(t, dispatcher.listeners)

		listeners, err := dispatcher.Listeners("user.created")
		require.NoError(t, err)
		assert.Empty(t, listeners)
	})

	t.Run("removing unknown listeners is a no-op", func(t *testing.T) {
		var calls []string
		dispatcher := NewEventDispatcher()

		assert.NoError(t, dispatcher.RemoveListener("user.created", &stubListener{tag: "ghost", calls: &calls}))

		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "kept", calls: &calls}, 0))
		assert.NoError(t, dispatcher.RemoveListener("user.created", &stubListener{tag: "ghost", calls: &calls}))

		has, err := dispatcher.HasListeners("user.created")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("removes every identity match across priorities", func(t *testing.T) {
		var calls []string
		listener := &stubListener{tag: "dup", calls: &calls}
		dispatcher := NewEventDispatcher()

		require.NoError(t, dispatcher.AddListener("user.created", listener, 3))
		require.NoError(t, dispatcher.AddListener("user.created", listener, 7))
		require.NoError(t, dispatcher.RemoveListener("user.created", listener))

		has, err := dispatcher.HasListeners("user.created")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("stopping propagation skips the remaining listeners", func(t *testing.T) {
		var calls []string
		dispatcher := NewEventDispatcher()

		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "first", calls: &calls, stop: true}, 10))
		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "second", calls: &calls}, 10))
		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "third", calls: &calls}, 0))

		event, err := dispatcher.Dispatch("user.created", nil)

		require.NoError(t, err)
		assert.True(t, event.IsPropagationStopped())
		assert.Equal(t, []string{"first"}, calls)
	})

	t.Run("listener failure aborts the chain", func(t *testing.T) {
		var calls []string
		failure := errors.New("handler blew up")
		dispatcher := NewEventDispatcher()

		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "first", calls: &calls, err: failure}, 10))
		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "second", calls: &calls}, 0))

		event, err := dispatcher.Dispatch("user.created", nil)

		assert.ErrorIs(t, err, failure)
		assert.NotNil(t, event)
		assert.Equal(t, []string{"first"}, calls)
	})

	t.Run("reentrant registration only affects the next dispatch", func(t *testing.T) {
		var calls []string
		dispatcher := NewEventDispatcher()
		late := &stubListener{tag: "late", calls: &calls}

		require.NoError(t, dispatcher.AddListener("user.created", &registeringListener{calls: &calls, next: late}, 0))

		_, err := dispatcher.Dispatch("user.created", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"registrar"}, calls)

		_, err = dispatcher.Dispatch("user.created", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"registrar", "late", "registrar"}, calls)
	})

	t.Run("returns every known event through AllListeners", func(t *testing.T) {
		var calls []string
		dispatcher := NewEventDispatcher()

		require.NoError(t, dispatcher.AddListener("user.created", &stubListener{tag: "a", calls: &calls}, 0))
		require.NoError(t, dispatcher.AddListener("user.deleted", &stubListener{tag: "b", calls: &calls}, 0))

		all, err := dispatcher.AllListeners()
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Len(t, all["user.created"], 1)
		assert.Len(t, all["user.deleted"], 1)

		has, err := dispatcher.HasListeners("")
		require.NoError(t, err)
		assert.True(t, has)
	})
}

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
	"testing"

	"github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterService struct {
	calls int
}

func (s *counterService) OnEvent(event Event) error {
	s.calls++
	return nil
}

type declaredSubscriber struct {
	calls []string
}

func (s *declaredSubscriber) SubscribedEvents() map[string][]Binding {
	return map[string][]Binding{
		"order.placed": {BindPriority("OnValidate", 10), Bind("OnPersist")},
	}
}

func (s *declaredSubscriber) OnValidate(event Event) error {
	s.calls = append(s.calls, "validate")
	return nil
}

func (s *declaredSubscriber) OnPersist(event Event) error {
	s.calls = append(s.calls, "persist")
	return nil
}

func TestServiceDispatcher(t *testing.T) {
	t.Run("rejects malformed bindings", func(t *testing.T) {
		dispatcher := NewServiceDispatcher(container.NewContainer())

		var invalid *InvalidBindingError
		assert.ErrorAs(t, dispatcher.AddListenerService("", "svc1", "OnEvent", 0), &invalid)
		assert.ErrorAs(t, dispatcher.AddListenerService("order.placed", "", "OnEvent", 0), &invalid)
		assert.ErrorAs(t, dispatcher.AddListenerService("order.placed", "svc1", "", 0), &invalid)
		assert.ErrorAs(t, dispatcher.AddSubscriberService("", &declaredSubscriber{}), &invalid)

		has, err := dispatcher.HasListeners("")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("materializes shared services once", func(t *testing.T) {
		registry := container.NewContainer()
		registry.Register("svc1", func() (any, error) {
			return &counterService{}, nil
		})
		dispatcher := NewServiceDispatcher(registry)

		require.NoError(t, dispatcher.AddListenerService("order.placed", "svc1", "OnEvent", 5))

		_, err := dispatcher.Dispatch("order.placed", nil)
		require.NoError(t, err)
		_, err = dispatcher.Dispatch("order.placed", nil)
		require.NoError(t, err)

		instance, err := registry.Get("svc1")
		require.NoError(t, err)
		assert.Equal(t, 2, instance.(*counterService).calls)
	})

	t.Run("reconciles re-resolved instances", func(t *testing.T) {
		var instances []*counterService
		registry := container.NewContainer()
		registry.RegisterTransient("svc1", func() (any, error) {
			instance := &counterService{}
			instances = append(instances, instance)
			return instance, nil
		})
		dispatcher := NewServiceDispatcher(registry)

		require.NoError(t, dispatcher.AddListenerService("order.placed", "svc1", "OnEvent", 5))

		_, err := dispatcher.Dispatch("order.placed", nil)
		require.NoError(t, err)
		_, err = dispatcher.Dispatch("order.placed", nil)
		require.NoError(t, err)

		// Every dispatch resolves a fresh instance; the stale one is unbound,
		// so each instance is invoked exactly once.
		require.Len(t, instances, 2)
		assert.Equal(t, 1, instances[0].calls)
		assert.Equal(t, 1, instances[1].calls)

		listeners, err := dispatcher.Listeners("order.placed")
		require.NoError(t, err)
		assert.Len(t, listeners, 1)
	})

	t.Run("removal before dispatch prevents materialization", func(t *testing.T) {
		registry := container.NewContainer()
		registry.Register("svc1", func() (any, error) {
			return &counterService{}, nil
		})
		dispatcher := NewServiceDispatcher(registry)

		require.NoError(t, dispatcher.AddListenerService("order.placed", "svc1", "OnEvent", 5))

		instance, err := registry.Get("svc1")
		require.NoError(t, err)
		require.NoError(t, dispatcher.RemoveListener("order.placed", Method(instance, "OnEvent")))

		has, err := dispatcher.HasListeners("order.placed")
		require.NoError(t, err)
		assert.False(t, has)

		_, err = dispatcher.Dispatch("order.placed", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, instance.(*counterService).calls)
	})

	t.Run("propagates resolution failures", func(t *testing.T) {
		dispatcher := NewServiceDispatcher(container.NewContainer())
		require.NoError(t, dispatcher.AddListenerService("order.placed", "missing", "OnEvent", 0))

		var notFound *container.ServiceNotFoundError

		event, err := dispatcher.Dispatch("order.placed", nil)
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, "order.placed", event.Name())

		_, err = dispatcher.Listeners("order.placed")
		assert.ErrorAs(t, err, &notFound)

		_, err = dispatcher.HasListeners("")
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("registers subscriber declarations against a service id", func(t *testing.T) {
		registry := container.NewContainer()
		registry.Register("subscriber", func() (any, error) {
			return &declaredSubscriber{}, nil
		})
		dispatcher := NewServiceDispatcher(registry)

		require.NoError(t, dispatcher.AddSubscriberService("subscriber", &declaredSubscriber{}))

		_, err := dispatcher.Dispatch("order.placed", nil)
		require.NoError(t, err)

		instance, err := registry.Get("subscriber")
		require.NoError(t, err)
		assert.Equal(t, []string{"validate", "persist"}, instance.(*declaredSubscriber).calls)
	})

	t.Run("mixes direct and service-bound listeners", func(t *testing.T) {
		var calls []string
		registry := container.NewContainer()
		subscriber := &declaredSubscriber{}
		registry.Register("subscriber", func() (any, error) {
			return subscriber, nil
		})
		dispatcher := NewServiceDispatcher(registry)

		require.NoError(t, dispatcher.AddListenerService("order.placed", "subscriber", "OnPersist", -5))
		require.NoError(t, dispatcher.AddListener("order.placed", &stubListener{tag: "direct", calls: &calls}, 0))

		_, err := dispatcher.Dispatch("order.placed", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"direct"}, calls)
		assert.Equal(t, []string{"persist"}, subscriber.calls)
	})
}

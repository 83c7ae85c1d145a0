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

package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe must have nonzero size: zero-size allocations may share a single
// address, which would defeat the NotSame identity checks below.
type probe struct{ _ byte }

func TestContainer(t *testing.T) {
	t.Run("fails on unregistered ids", func(t *testing.T) {
		registry := NewContainer()

		_, err := registry.Get("missing")

		var notFound *ServiceNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.ID)
	})

	t.Run("memoizes shared services", func(t *testing.T) {
		built := 0
		registry := NewContainer()
		registry.Register("svc", func() (any, error) {
			built++
			return &probe{}, nil
		})

		first, err := registry.Get("svc")
		require.NoError(t, err)
		second, err := registry.Get("svc")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, built)
	})

	t.Run("rebuilds transient services per resolution", func(t *testing.T) {
		registry := NewContainer()
		registry.RegisterTransient("svc", func() (any, error) {
			return &probe{}, nil
		})

		first, err := registry.Get("svc")
		require.NoError(t, err)
		second, err := registry.Get("svc")
		require.NoError(t, err)

		assert.NotSame(t, first, second)
	})

	t.Run("propagates factory failures without memoizing", func(t *testing.T) {
		failure := errors.New("could not construct")
		registry := NewContainer()
		registry.Register("svc", func() (any, error) {
			return nil, failure
		})

		_, err := registry.Get("svc")
		assert.ErrorIs(t, err, failure)

		_, err = registry.Get("svc")
		assert.ErrorIs(t, err, failure)
	})

	t.Run("re-registration drops the memoized instance", func(t *testing.T) {
		registry := NewContainer()
		registry.Register("svc", func() (any, error) {
			return &probe{}, nil
		})

		first, err := registry.Get("svc")
		require.NoError(t, err)

		registry.Register("svc", func() (any, error) {
			return &probe{}, nil
		})

		second, err := registry.Get("svc")
		require.NoError(t, err)
		assert.NotSame(t, first, second)
	})
}

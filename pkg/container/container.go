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
	"sync"
)

// Factory builds a service instance.
type Factory func() (any, error)

type registration struct {
	factory Factory
	shared  bool
}

// Container is a minimal string-keyed service locator. Shared services are
// built once and memoized; transient services are built anew on every Get,
// which is what forces dispatchers bound to them to reconcile instances.
type Container struct {
	locker        sync.Mutex
	registrations map[string]registration
	instances     map[string]any
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{
		registrations: make(map[string]registration),
		instances:     make(map[string]any),
	}
}

// Register binds a shared service under the given id. A second registration
// for the same id replaces the first and drops the memoized instance.
func (c *Container) Register(id string, factory Factory) {
	c.register(id, factory, true)
}

// RegisterTransient binds a service constructed anew on every Get.
func (c *Container) RegisterTransient(id string, factory Factory) {
	c.register(id, factory, false)
}

func (c *Container) register(id string, factory Factory, shared bool) {
	c.locker.Lock()
	defer c.locker.Unlock()
	c.registrations[id] = registration{factory: factory, shared: shared}
	delete(c.instances, id)
}

// Get resolves a service instance by id.
func (c *Container) Get(id string) (any, error) {
	c.locker.Lock()
	defer c.locker.Unlock()

	reg, ok := c.registrations[id]
	if !ok {
		return nil, &ServiceNotFoundError{ID: id}
	}

	if reg.shared {
		if instance, ok := c.instances[id]; ok {
			return instance, nil
		}
	}

	instance, err := reg.factory()
	if err != nil {
		return nil, err
	}

	if reg.shared {
		c.instances[id] = instance
	}

	return instance, nil
}

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

package pkg

import (
	"os"

	"github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/config"
	"github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/container"
	"github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/events"
	"github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/log"
	"github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

type option func(*options)

type options struct {
	invokables []interface{}
	modules    []interface{}
}

func newOptions(opts ...option) options {
	opt := options{}
	for _, o := range opts {
		o(&opt)
	}

	return opt
}

func WithInvokables(val ...interface{}) option {
	return func(o *options) {
		o.invokables = val
	}
}

func WithModules(val ...interface{}) option {
	return func(o *options) {
		o.modules = val
	}
}

type bootstrapper struct {
	path       string
	invokables []interface{}
	modules    []interface{}
}

// NewBootstrapper assembles an fx application builder around the dispatcher
// stack: configuration, logging, tracing, the service container and the
// configured dispatcher itself.
func NewBootstrapper(path string, opts ...option) bootstrapper {
	options := newOptions(opts...)
	return bootstrapper{
		path:       path,
		invokables: options.invokables,
		modules:    options.modules,
	}
}

func (b bootstrapper) Bootstrap() *fx.App {
	builder := config.BuildNewDispatcherConfig(b.path)
	dconf, err := builder()
	if err != nil {
		log := log.NewDefaultLogger(&config.LoggerConfig{})
		log.Fatal(err.Error())
		return nil
	}

	var logger fx.Option = fx.NopLogger
	if dconf.Dispatcher.Debug {
		logger = fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: os.Stdout}
		})
	}

	return fx.New(
		fx.Provide(builder),
		fx.Provide(config.BuildNewLoggerConfig(b.path)),
		fx.Provide(config.BuildNewTracerConfig(b.path)),
		fx.Provide(log.NewLogrusLogger),
		fx.Provide(trace.NewTracer),
		fx.Provide(container.NewContainer),
		fx.Provide(NewDispatcher),
		fx.Provide(b.modules...),
		fx.Invoke(b.invokables...),
		logger,
	)
}

// NewDispatcher builds the dispatcher the application sees: a service-bound
// dispatcher over the container, wrapped into the tracing decorator when
// debug mode is on.
func NewDispatcher(config *config.DispatcherConfig, locator *container.Container, logger log.Logger) events.Dispatcher {
	var dispatcher events.Dispatcher = events.NewServiceDispatcher(locator)
	if config.Dispatcher.Debug {
		dispatcher = events.NewTraceableDispatcher(dispatcher, logger)
	}

	return dispatcher
}

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
	"context"
	"time"

	"github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const instrumentationName = "github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/events"

// TraceableDispatcher decorates a dispatcher with an opentelemetry span and
// debug logs per dispatch. Registration and inspection delegate verbatim.
type TraceableDispatcher struct {
	dispatcher Dispatcher
	logger     log.Logger
}

// NewTraceableDispatcher wraps a dispatcher into the tracing decorator.
func NewTraceableDispatcher(dispatcher Dispatcher, logger log.Logger) Dispatcher {
	return &TraceableDispatcher{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (d *TraceableDispatcher) Dispatch(eventName string, event Event) (Event, error) {
	_, span := otel.GetTracerProvider().Tracer(instrumentationName).Start(context.Background(), eventName)
	defer span.End()

	start := time.Now()
	event, err := d.dispatcher.Dispatch(eventName, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Errorf("could not dispatch %s: %s", eventName, err.Error())
		return event, err
	}

	d.logger.Debugf("dispatched %s in %s", eventName, time.Since(start))
	return event, nil
}

func (d *TraceableDispatcher) AddListener(eventName string, listener Listener, priority int) error {
	return d.dispatcher.AddListener(eventName, listener, priority)
}

func (d *TraceableDispatcher) RemoveListener(eventName string, listener Listener) error {
	return d.dispatcher.RemoveListener(eventName, listener)
}

func (d *TraceableDispatcher) AddSubscriber(subscriber Subscriber) error {
	return d.dispatcher.AddSubscriber(subscriber)
}

func (d *TraceableDispatcher) RemoveSubscriber(subscriber Subscriber) error {
	return d.dispatcher.RemoveSubscriber(subscriber)
}

func (d *TraceableDispatcher) Listeners(eventName string) ([]Listener, error) {
	return d.dispatcher.Listeners(eventName)
}

func (d *TraceableDispatcher) AllListeners() (map[string][]Listener, error) {
	return d.dispatcher.AllListeners()
}

func (d *TraceableDispatcher) HasListeners(eventName string) (bool, error) {
	return d.dispatcher.HasListeners(eventName)
}

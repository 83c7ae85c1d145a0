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

package hook

import (
	"context"
	"time"

	elastic "github.com/olivere/elastic/v7"
	"github.com/sirupsen/logrus"
)

type fireFunc func(hook *ElasticHook, entry *logrus.Entry) error

// ElasticHook ships logrus entries to an elasticsearch index. Delivery is
// synchronous, asynchronous or bulk-buffered depending on the constructor.
type ElasticHook struct {
	client *elastic.Client
	host   string
	index  string
	levels []logrus.Level
	ctx    context.Context
	cancel context.CancelFunc
	fire   fireFunc
}

type message struct {
	Host      string        `json:"host"`
	Timestamp string        `json:"@timestamp"`
	Message   string        `json:"message"`
	Level     string        `json:"level"`
	Fields    logrus.Fields `json:"fields,omitempty"`
}

// NewElasticHook creates a hook that indexes every entry inline.
func NewElasticHook(client *elastic.Client, host string, level logrus.Level, index string) (*ElasticHook, error) {
	return newHook(client, host, level, index, syncFire)
}

// NewAsyncElasticHook creates a hook that indexes entries from a goroutine,
// never blocking the logging call.
func NewAsyncElasticHook(client *elastic.Client, host string, level logrus.Level, index string) (*ElasticHook, error) {
	return newHook(client, host, level, index, asyncFire)
}

// NewBulkProcessorElasticHook creates a hook that buffers entries into a
// bulk processor flushed every second.
func NewBulkProcessorElasticHook(client *elastic.Client, host string, level logrus.Level, index string) (*ElasticHook, error) {
	processor, err := client.BulkProcessor().
		Name("elastic-logrus-hook").
		Workers(1).
		FlushInterval(time.Second).
		Do(context.Background())
	if err != nil {
		return nil, err
	}

	return newHook(client, host, level, index, func(hook *ElasticHook, entry *logrus.Entry) error {
		processor.Add(elastic.NewBulkIndexRequest().Index(hook.index).Doc(createMessage(hook, entry)))
		return nil
	})
}

func newHook(client *elastic.Client, host string, level logrus.Level, index string, fire fireFunc) (*ElasticHook, error) {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	if !exists {
		if _, err := client.CreateIndex(index).Do(ctx); err != nil {
			cancel()
			return nil, err
		}
	}

	return &ElasticHook{
		client: client,
		host:   host,
		index:  index,
		levels: levels,
		ctx:    ctx,
		cancel: cancel,
		fire:   fire,
	}, nil
}

func createMessage(hook *ElasticHook, entry *logrus.Entry) *message {
	return &message{
		Host:      hook.host,
		Timestamp: entry.Time.UTC().Format(time.RFC3339Nano),
		Message:   entry.Message,
		Level:     entry.Level.String(),
		Fields:    entry.Data,
	}
}

func syncFire(hook *ElasticHook, entry *logrus.Entry) error {
	_, err := hook.client.Index().
		Index(hook.index).
		BodyJson(createMessage(hook, entry)).
		Do(hook.ctx)
	return err
}

func asyncFire(hook *ElasticHook, entry *logrus.Entry) error {
	go func() {
		_ = syncFire(hook, entry)
	}()
	return nil
}

// Fire implements the logrus hook interface.
func (h *ElasticHook) Fire(entry *logrus.Entry) error {
	return h.fire(h, entry)
}

// Levels implements the logrus hook interface.
func (h *ElasticHook) Levels() []logrus.Level {
	return h.levels
}

// Cancel stops in-flight deliveries.
func (h *ElasticHook) Cancel() {
	h.cancel()
}

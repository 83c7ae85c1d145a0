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

package log

import (
	"fmt"
	"log"
	"os"

	"github.com/ONLYOFFICE/onlyoffice-event-dispatcher/pkg/config"
)

// Logger is a generic logger interface.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
}

// EmptyLogger is an empty Logger implementation.
type EmptyLogger struct{}

// NewEmptyLogger is an empty logger constructor.
func NewEmptyLogger() Logger {
	return EmptyLogger{}
}

func (l EmptyLogger) Debugf(format string, args ...interface{}) {}
func (l EmptyLogger) Infof(format string, args ...interface{})  {}
func (l EmptyLogger) Warnf(format string, args ...interface{})  {}
func (l EmptyLogger) Errorf(format string, args ...interface{}) {}
func (l EmptyLogger) Fatalf(format string, args ...interface{}) {}
func (l EmptyLogger) Debug(args ...interface{})                 {}
func (l EmptyLogger) Info(args ...interface{})                  {}
func (l EmptyLogger) Warn(args ...interface{})                  {}
func (l EmptyLogger) Error(args ...interface{})                 {}
func (l EmptyLogger) Fatal(args ...interface{})                 {}

// DefaultLogger is a golang log package Logger implementation.
type DefaultLogger struct {
	out   *log.Logger
	err   *log.Logger
	level LogLevel
}

// NewDefaultLogger is a golang log package Logger constructor.
func NewDefaultLogger(config *config.LoggerConfig) Logger {
	return DefaultLogger{
		out:   log.New(os.Stdout, fmt.Sprintf("[%s]: ", config.Logger.Name), log.Ldate|log.Ltime|log.Lshortfile),
		err:   log.New(os.Stderr, fmt.Sprintf("[%s]: ", config.Logger.Name), log.Ldate|log.Ltime|log.Llongfile),
		level: LogLevel(config.Logger.Level),
	}
}

func (l DefaultLogger) printf(target *log.Logger, level LogLevel, tag, format string, args ...interface{}) {
	if l.level <= level {
		target.Printf(tag+" "+format+"\n", args...)
	}
}

func (l DefaultLogger) println(target *log.Logger, level LogLevel, tag string, args ...interface{}) {
	if l.level <= level {
		target.Println(append([]interface{}{tag}, args...)...)
	}
}

func (l DefaultLogger) Debugf(format string, args ...interface{}) {
	l.printf(l.out, LEVEL_DEBUG, "DEBUG", format, args...)
}

func (l DefaultLogger) Infof(format string, args ...interface{}) {
	l.printf(l.out, LEVEL_INFO, "INFO", format, args...)
}

func (l DefaultLogger) Warnf(format string, args ...interface{}) {
	l.printf(l.out, LEVEL_WARNING, "WARN", format, args...)
}

func (l DefaultLogger) Errorf(format string, args ...interface{}) {
	l.printf(l.err, LEVEL_ERROR, "ERROR", format, args...)
}

func (l DefaultLogger) Fatalf(format string, args ...interface{}) {
	if l.level <= LEVEL_FATAL {
		l.err.Fatalf("FATAL "+format+"\n", args...)
	}
}

func (l DefaultLogger) Debug(args ...interface{}) {
	l.println(l.out, LEVEL_DEBUG, "DEBUG", args...)
}

func (l DefaultLogger) Info(args ...interface{}) {
	l.println(l.out, LEVEL_INFO, "INFO", args...)
}

func (l DefaultLogger) Warn(args ...interface{}) {
	l.println(l.out, LEVEL_WARNING, "WARN", args...)
}

func (l DefaultLogger) Error(args ...interface{}) {
	l.println(l.err, LEVEL_ERROR, "ERROR", args...)
}

func (l DefaultLogger) Fatal(args ...interface{}) {
	if l.level <= LEVEL_FATAL {
		l.err.Fatalln(append([]interface{}{"FATAL"}, args...)...)
	}
}

// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[string]LogLevel{
	"debug":   DEBUG,
	"info":    INFO,
	"warn":    WARN,
	"warning": WARN,
	"error":   ERROR,
}

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return l
}

// ParseLevel maps a config string onto a LogLevel. Unknown names fall back to INFO.
func ParseLevel(name string) LogLevel {
	if lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lvl
	}
	return INFO
}

func SetLevel(level LogLevel) {
	switch level {
	case DEBUG:
		log.SetLevel(logrus.DebugLevel)
	case WARN:
		log.SetLevel(logrus.WarnLevel)
	case ERROR:
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// SetFormat switches between "json" and the default text output.
func SetFormat(format string) {
	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		return
	}
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Logger exposes the underlying logrus instance, mainly for hooks in tests.
func Logger() *logrus.Logger {
	return log
}

func entry(component string, fields map[string]interface{}) *logrus.Entry {
	e := logrus.NewEntry(log)
	if component != "" {
		e = e.WithField("component", component)
	}
	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	return e
}

func DebugC(component, message string) {
	entry(component, nil).Debug(message)
}

func DebugCF(component, message string, fields map[string]interface{}) {
	entry(component, fields).Debug(message)
}

func InfoC(component, message string) {
	entry(component, nil).Info(message)
}

func InfoCF(component, message string, fields map[string]interface{}) {
	entry(component, fields).Info(message)
}

func WarnC(component, message string) {
	entry(component, nil).Warn(message)
}

func WarnCF(component, message string, fields map[string]interface{}) {
	entry(component, fields).Warn(message)
}

func ErrorC(component, message string) {
	entry(component, nil).Error(message)
}

func ErrorCF(component, message string, fields map[string]interface{}) {
	entry(component, fields).Error(message)
}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB  = 8
	logMaxFiles   = 5
	logMaxAgeDays = 30
)

// logFactory builds loggers that write colored lines to stderr and JSON to
// a rotated file under the log directory. Console output can be muted, which
// the avalanchego factory does not allow.
type logFactory struct {
	config logging.Config

	lock    sync.Mutex
	loggers map[string]logging.Logger
}

func newLogConfig(dir string, level logging.Level, display bool) logging.Config {
	return logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   logMaxSizeMB,
			MaxFiles:  logMaxFiles,
			MaxAge:    logMaxAgeDays,
			Directory: dir,
		},
		LogLevel:                level,
		DisplayLevel:            level,
		LogFormat:               logging.JSON,
		DisableWriterDisplaying: !display,
	}
}

func newLogFactory(config logging.Config) *logFactory {
	return &logFactory{
		config:  config,
		loggers: make(map[string]logging.Logger),
	}
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}

	var console io.WriteCloser = os.Stderr
	if f.config.DisableWriterDisplaying {
		console = nopCloser{io.Discard}
	}
	consoleCore := logging.NewWrappedCore(f.config.DisplayLevel, console, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = f.config.DisableWriterDisplaying

	file := &lumberjack.Logger{
		Filename:   filepath.Join(f.config.Directory, name+".log"),
		MaxSize:    f.config.MaxSize,
		MaxAge:     f.config.MaxAge,
		MaxBackups: f.config.MaxFiles,
		Compress:   f.config.Compress,
	}
	fileCore := logging.NewWrappedCore(f.config.LogLevel, file, f.config.LogFormat.FileEncoder())

	l := logging.NewLogger(f.config.LogFormat.WrapPrefix(name), consoleCore, fileCore)
	f.loggers[name] = l
	l.Debug("created logger", zap.String("directory", f.config.Directory))
	return l, nil
}

func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, l := range f.loggers {
		l.Stop()
	}
	f.loggers = nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

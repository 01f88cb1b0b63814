// Package logging hands out per-domain loggers whose output passes through a
// shared level filter. Messages carry their level as a "[LEVEL]" prefix:
//
//	log.Printf("[ERROR] Cannot persist events: %s\n", err.Error())
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/hashicorp/logutils"
)

// Domain names one area of the application in log lines.
type Domain string

// Log domains.
const (
	Store    Domain = "store"
	Reminder Domain = "reminder"
	Notify   Domain = "notify"
	Config   Domain = "config"
	CLI      Domain = "cli"
	UI       Domain = "ui"
)

// Levels lists the accepted levels, least severe first.
var Levels = []logutils.LogLevel{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

// DefaultLevel is used when no level is configured.
const DefaultLevel = "INFO"

var (
	mu     sync.RWMutex
	output io.Writer = io.Discard
)

// sink forwards to whatever writer Setup installed last, so loggers created
// before Setup still end up in the right place.
type sink struct{}

func (sink) Write(p []byte) (int, error) {
	mu.RLock()
	w := output
	mu.RUnlock()
	return w.Write(p)
}

// ParseLevel normalizes a configured level name.
func ParseLevel(level string) (logutils.LogLevel, error) {
	name := logutils.LogLevel(strings.ToUpper(strings.TrimSpace(level)))
	if name == "" {
		return DefaultLevel, nil
	}
	for _, l := range Levels {
		if l == name {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown log level %q", level)
}

// Setup routes every logger to w, dropping messages below level.
func Setup(w io.Writer, level string) error {
	min, err := ParseLevel(level)
	if err != nil {
		return err
	}

	filter := &logutils.LevelFilter{
		Levels:   Levels,
		MinLevel: min,
		Writer:   w,
	}

	mu.Lock()
	output = filter
	mu.Unlock()
	return nil
}

// Get returns a logger for domain.
func Get(domain Domain) *log.Logger {
	return log.New(sink{}, string(domain)+" ", log.Ldate|log.Ltime|log.Lshortfile)
}

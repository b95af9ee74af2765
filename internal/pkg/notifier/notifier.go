// Package notifier shows short transient messages, the terminal version of
// a snackbar.
package notifier

import (
	"fmt"
	"io"
	"sync"
)

type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

type Notifier interface {
	ShowError(message string)
	ShowSuccess(message string)
	ShowInfo(message string)
}

// Writer prints one line per message.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) ShowError(message string)   { n.show(LevelError, message) }
func (n *Writer) ShowSuccess(message string) { n.show(LevelSuccess, message) }
func (n *Writer) ShowInfo(message string)    { n.show(LevelInfo, message) }

func (n *Writer) show(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", level, message)
}

type Message struct {
	Level Level
	Text  string
}

// Recorder keeps every message for inspection.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) ShowError(message string)   { r.add(LevelError, message) }
func (r *Recorder) ShowSuccess(message string) { r.add(LevelSuccess, message) }
func (r *Recorder) ShowInfo(message string)    { r.add(LevelInfo, message) }

func (r *Recorder) add(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: text})
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent message of level, or "".
func (r *Recorder) Last(level Level) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].Level == level {
			return r.messages[i].Text
		}
	}
	return ""
}

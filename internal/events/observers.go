package events

import (
	"log"
)

// LoggingObserver logs every event it sees.
type LoggingObserver struct {
	name    string
	verbose bool
}

// NewLoggingObserver creates a new observer that logs events.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{
		name:    "LoggingObserver",
		verbose: verbose,
	}
}

// OnEvent logs the event details.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		log.Printf("[%s] Event: %s, Session: %s, Data: %+v", o.name, event.Type, event.SessionID, event.Data)
	} else {
		log.Printf("[%s] Event: %s, Session: %s", o.name, event.Type, event.SessionID)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *LoggingObserver) ShouldHandle(eventType string) bool {
	return true
}

// FuncObserver adapts a function to the Observer interface.
type FuncObserver struct {
	Name  string
	Types []string // empty = all types
	Fn    func(Event) error
}

// OnEvent calls Fn.
func (o *FuncObserver) OnEvent(event Event) error {
	return o.Fn(event)
}

// GetName returns the observer's name.
func (o *FuncObserver) GetName() string {
	return o.Name
}

// ShouldHandle reports whether eventType is in Types, or true when Types is empty.
func (o *FuncObserver) ShouldHandle(eventType string) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, t := range o.Types {
		if t == eventType {
			return true
		}
	}
	return false
}

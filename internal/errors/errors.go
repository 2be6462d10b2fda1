package errors

import (
	"fmt"
	"os"
	"sync"
)

var (
	defaultHandler *ErrorHandler
	once           sync.Once
)

func GetDefaultHandler() (*ErrorHandler, error) {
	var err error
	once.Do(func() {
		defaultHandler, err = NewErrorHandler()
	})
	if defaultHandler == nil && err == nil {
		err = fmt.Errorf("error handler unavailable")
	}
	return defaultHandler, err
}

// HandleError reports err through the default handler. If no log file can be
// opened the error is still printed to stderr.
func HandleError(err error) {
	if err == nil {
		return
	}
	if handler, handlerErr := GetDefaultHandler(); handlerErr == nil {
		handler.Handle(err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}

// resetDefaultHandler resets the singleton for testing purposes
func resetDefaultHandler() {
	if defaultHandler != nil {
		_ = defaultHandler.Close()
	}
	defaultHandler = nil
	once = sync.Once{}
}

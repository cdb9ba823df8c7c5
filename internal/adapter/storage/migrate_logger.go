package storage

import (
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose"

	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
)

var _ goose.Logger = (*migrateLogger)(nil)

// migrateLogger routes goose output into the application logger.
// A nil log drops everything except fatal errors.
type migrateLogger struct {
	log ports.LoggerPort
}

func (l *migrateLogger) Print(v ...interface{}) {
	l.info(fmt.Sprint(v...))
}

func (l *migrateLogger) Println(v ...interface{}) {
	l.info(fmt.Sprintln(v...))
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Fatal(v ...interface{}) {
	l.fatal(fmt.Sprint(v...))
}

func (l *migrateLogger) Fatalf(format string, v ...interface{}) {
	l.fatal(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) info(msg string) {
	if l.log == nil {
		return
	}
	l.log.Info(strings.TrimSpace(msg), map[string]interface{}{
		"component": "migrations",
	})
}

// fatal keeps goose's contract: the process exits.
func (l *migrateLogger) fatal(msg string) {
	if l.log != nil {
		l.log.Error(strings.TrimSpace(msg), map[string]interface{}{
			"component": "migrations",
		})
		_ = l.log.Sync()
	} else {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(msg))
	}
	os.Exit(1)
}

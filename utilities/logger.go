package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
)

func init() {
	// Packages may log before main calls InitLogger (tests, migrate).
	InitLogger()
}

// InitLogger sets up the leveled loggers on stdout/stderr.
func InitLogger() {
	InitLoggerWithWriters(os.Stdout, os.Stderr)
}

// InitLoggerWithWriters sets up the leveled loggers on the given writers.
// INFO and DEBUG go to out, ERROR goes to errOut.
func InitLoggerWithWriters(out, errOut io.Writer) {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile

	InfoLogger = log.New(out, "[INFO] ", flags)
	ErrorLogger = log.New(errOut, "[ERROR] ", flags)
	DebugLogger = log.New(out, "[DEBUG] ", flags)
}

// LogRequest records one served HTTP request.
func LogRequest(requestID, method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Output(2, fmt.Sprintf("rid=%s %s %s %s %d %v", requestID, method, path, remoteAddr, status, duration))
}

// LogError records err together with where it happened.
func LogError(err error, context string) {
	ErrorLogger.Output(2, context+": "+errString(err))
}

// LogDebug records debug information.
func LogDebug(format string, v ...any) {
	DebugLogger.Output(2, fmt.Sprintf(format, v...))
}

// LogInfo records general information.
func LogInfo(format string, v ...any) {
	InfoLogger.Output(2, fmt.Sprintf(format, v...))
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/tier4/mapvalidator/schema"
)

// Status label constants.
const (
	PassedValue = "Passed"
	FailedValue = "Failed"
)

// Color variables for console output.
var (
	ErrorColor   = color.New(color.FgRed, color.Bold) // errorColor represents standard danger.
	WarningColor = color.New(color.FgYellow)          // warningColor represents standard caution, not bold.
	InfoColor    = color.New(color.FgCyan)            // infoColor represents informational / low-priority signal.
	PassedColor  = color.New(color.FgGreen)
	FailedColor  = color.New(color.FgRed)
)

// GetPlainStatus returns the label used for a passed or failed group or check.
func GetPlainStatus(passed bool) string {
	if passed {
		return PassedValue
	}
	return FailedValue
}

// GetColorStatus returns a colored status label for console output.
func GetColorStatus(passed bool) string {
	if passed {
		return PassedColor.Sprint(PassedValue)
	}
	return FailedColor.Sprint(FailedValue)
}

// GetColorSeverity returns a colored severity label for console output.
func GetColorSeverity(sev schema.Severity) string {
	text := sev.String()
	switch sev {
	case schema.SeverityError:
		return ErrorColor.Sprint(text)
	case schema.SeverityWarning:
		return WarningColor.Sprint(text)
	case schema.SeverityInfo:
		return InfoColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".mapvalidator_history.db"
	}
	return filepath.Join(homeDir, ".mapvalidator_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." suffix and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ShortMapName returns the parent directory and file name of a map path.
func ShortMapName(path string) string {
	if path == "" {
		return ""
	}
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) {
		return filepath.Base(path)
	}
	return dir + "/" + filepath.Base(path)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

package usecase

import (
	"errors"
	"fmt"
	"strings"

	"lemiknow/internal/domain/model"
)

const (
	dateFormat      = "2006-01-02 15:04:05"
	unparsableValue = "ERROR - Couldn't parse the returned value."
	fmtPanicMarker  = "%!v(PANIC="
)

func startMessage(rec *model.InvocationRecord, cfg model.NotificationConfig) string {
	var builder strings.Builder
	if cfg.IncludeDetails {
		builder.WriteString(fmt.Sprintf("%s called on %s at %s", rec.Operation, rec.Host, rec.StartedAt.Format(dateFormat)))
	}
	if cfg.Message != "" {
		if cfg.IncludeDetails {
			builder.WriteString("\nMessage: " + cfg.Message)
		} else {
			builder.WriteString(fmt.Sprintf("%s: %s", rec.Operation, cfg.Message))
		}
	}
	if cfg.NotifyOnCompletion {
		builder.WriteString("\nWe'll let you know when it's done.")
	}
	return builder.String()
}

func successMessage(rec *model.InvocationRecord) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("✅ %s finished on %s at %s", rec.Operation, rec.Host, rec.FinishedAt.Format(dateFormat)))
	builder.WriteString(fmt.Sprintf("\nDuration: %s", rec.Elapsed()))
	builder.WriteString("\nReturned value: " + rec.Returned)
	return builder.String()
}

func failureMessage(rec *model.InvocationRecord) string {
	contents := []string{
		fmt.Sprintf("☠️ %s has crashed on %s at %s", rec.Operation, rec.Host, rec.FinishedAt.Format(dateFormat)),
		"Here's the error:",
		rec.ErrorText + "\n\n",
		"Traceback:",
		rec.StackTrace,
	}
	return strings.Join(contents, "\n")
}

// stringify renders a returned value, falling back to a fixed placeholder
// when the value's String or Error method panics.
func stringify(value any) (text string) {
	defer func() {
		if recover() != nil {
			text = unparsableValue
		}
	}()

	text = fmt.Sprint(value)
	if strings.Contains(text, fmtPanicMarker) {
		return unparsableValue
	}
	return text
}

// errorTrace renders the verbose form of err followed by its unwrap chain.
func errorTrace(err error) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%+v", err))
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		builder.WriteString("\ncaused by: ")
		builder.WriteString(cause.Error())
	}
	return builder.String()
}

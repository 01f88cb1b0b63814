package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/sejak/internal/event"
)

func joinTitle(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func formatRecord(index int, rec event.Record, now time.Time, loc *time.Location) string {
	builder := strings.Builder{}
	builder.Grow(32 + len(rec.Title))

	fmt.Fprintf(&builder, "%d. ", index)
	if rec.IsImportant {
		builder.WriteString("[!] ")
	}
	builder.WriteString(rec.Title)
	builder.WriteString(": ")
	builder.WriteString(rec.Since(now, loc))

	if rec.StartDate != "" {
		builder.WriteString(" (since ")
		builder.WriteString(rec.StartDate)
		if rec.StartTime != "" {
			builder.WriteString(" ")
			builder.WriteString(rec.StartTime)
		}
		builder.WriteString(")")
	}

	return builder.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q (expected on|off)", value)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func printRecords(cmd *cobra.Command, records []event.Record, now time.Time, loc *time.Location) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No events yet")
		return
	}
	for i, rec := range records {
		fmt.Fprintln(out, formatRecord(i+1, rec, now, loc))
	}
}

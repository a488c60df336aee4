package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonathanRiche/go-quantcast/core"
)

func parseID(kind string, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q: must be a positive integer", kind, value)
	}
	return id, nil
}

// splitList splits a comma-separated flag value, dropping blank items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseFilters reads breakdown=value1,value2 pairs. Only the first "="
// separates the breakdown from its values.
func parseFilters(raw []string) ([]core.ReportFilterInput, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filters := make([]core.ReportFilterInput, 0, len(raw))
	for _, item := range raw {
		breakdown, values, ok := strings.Cut(item, "=")
		breakdown = strings.TrimSpace(breakdown)
		if !ok || breakdown == "" {
			return nil, fmt.Errorf("invalid filter %q: expected breakdown=value1,value2", item)
		}
		list := splitList(values)
		if len(list) == 0 {
			return nil, fmt.Errorf("invalid filter %q: at least one value is required", item)
		}
		filters = append(filters, core.ReportFilterInput{Breakdown: breakdown, Values: list})
	}
	return filters, nil
}

func validateDates(startDate string, endDate string) error {
	if err := core.ValidateDate(startDate); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if err := core.ValidateDate(endDate); err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	return nil
}

package grapherror

import (
	"fmt"
	"sort"
	"strings"
)

var defaultMessages = map[Category]string{
	CategoryLoad:      "No manga data could be loaded - try again",
	CategoryDataset:   "The manga dataset is unavailable or unreadable",
	CategoryWebSocket: "Connection error - attempting to reconnect...",
	CategoryGesture:   "Pointer event ignored",
	CategoryQuery:     "Invalid filter query - check your terms and try again",
	CategoryInternal:  "An internal error occurred - please try again",
}

// ToUIMessage converts the error to a user-friendly message suitable for UI display
func (e *GraphError) ToUIMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if msg, ok := defaultMessages[e.Category]; ok {
		return msg
	}
	return "An error occurred"
}

// Retryable reports whether the shell should offer a retry affordance.
// Only load and dataset failures are recoverable by trying again.
func (e *GraphError) Retryable() bool {
	return e.Category == CategoryLoad || e.Category == CategoryDataset
}

// ToGraphMeta formats the error for inclusion in graph metadata
func (e *GraphError) ToGraphMeta() map[string]string {
	meta := map[string]string{
		"error":       e.Error(),
		"category":    string(e.Category),
		"description": e.ToUIMessage(),
		"timestamp":   e.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}

	if e.Subcategory != "" {
		meta["subcategory"] = e.Subcategory
	}
	if e.Retryable() {
		meta["retry"] = "true"
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		meta["context"] = strings.Join(parts, " ")
	}

	return meta
}

// ToLogFields converts error to structured log fields for logger.Errorw()
func (e *GraphError) ToLogFields() []interface{} {
	fields := []interface{}{
		"error_category", e.Category,
		"error_message", e.Error(),
		"user_message", e.UserMessage,
	}

	if e.Subcategory != "" {
		fields = append(fields, "error_subcategory", e.Subcategory)
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// IsCategory checks if the error matches a specific category
func (e *GraphError) IsCategory(cat Category) bool {
	return e.Category == cat
}

// IsSubcategory checks if the error matches a specific subcategory
func (e *GraphError) IsSubcategory(sub string) bool {
	return e.Subcategory == sub
}

package main

import "context"

// BindComments fills in the comment of every tagged channel from the variable
// catalog, matching on the exact tag name. It returns the number of channels
// that received a comment.
func BindComments(ctx context.Context, matrix HardwareMatrix, records []VariableRecord) int {
	comments := make(map[string]string, len(records))
	for _, r := range records {
		if r.Name != "" {
			comments[r.Name] = r.Comment
		}
	}

	bound := 0
	for _, drop := range matrix {
		for _, slot := range drop.Slots {
			for _, ch := range slot.Channels {
				if ch.Tag == "" {
					continue
				}
				if comment := comments[ch.Tag]; comment != "" {
					ch.Comment = comment
					bound++
				}
			}
		}
	}

	loggerFrom(ctx).Info("Comments bound to channels.", "count", bound)
	return bound
}

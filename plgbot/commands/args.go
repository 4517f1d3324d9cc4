package commands

import (
	"strconv"
	"strings"
)

// targetRef is a parsed user reference: either an @handle or a numeric
// Telegram id.
type targetRef struct {
	Username string
	TgID     int64
}

func parseTargetRef(raw string) (targetRef, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return targetRef{}, false
	}
	if strings.HasPrefix(raw, "@") {
		username := strings.TrimPrefix(raw, "@")
		if username == "" {
			return targetRef{}, false
		}
		return targetRef{Username: username}, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return targetRef{}, false
	}
	return targetRef{TgID: id}, true
}

// parseCount is permissive: anything non-numeric or below 1 becomes 1.
func parseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

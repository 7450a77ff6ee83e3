package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultProjectNumber is issued when no usable project-number history
// exists.
const DefaultProjectNumber = "GHM1000-AS"

// DefaultProjectSuffix is appended when the previous number carried none.
const DefaultProjectSuffix = "-AS"

var (
	projectNoPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)(-[A-Za-z]+)?$`)
	nonAlphanumeric  = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// NewEntityID returns a random unique id for client-side entities
// (images, ad-hoc sections).
func NewEntityID() string {
	return uuid.NewString()
}

// ReportID builds the persisted report identifier from the project number
// and the submission time in epoch milliseconds. Non-alphanumeric
// characters are stripped from the project number.
func ReportID(projectNo string, nowMillis int64) string {
	return fmt.Sprintf("RPT-%s-%d", nonAlphanumeric.ReplaceAllString(projectNo, ""), nowMillis)
}

// PositionalID formats a child identifier from its 1-based position
// within the report at submit time, e.g. "<reportId>-SEC-001".
func PositionalID(reportID, kind string, index int) string {
	return fmt.Sprintf("%s-%s-%03d", reportID, kind, index)
}

// NextProjectNumber suggests the project number that follows last:
// the numeric component is incremented by one, prefix and suffix are
// kept (suffix defaults to "-AS"). Empty or unparsable input yields
// DefaultProjectNumber with fallback true, which risks re-issuing a
// number already in use; callers should log when that happens.
func NextProjectNumber(last string) (next string, fallback bool) {
	m := projectNoPattern.FindStringSubmatch(strings.TrimSpace(last))
	if m == nil {
		return DefaultProjectNumber, true
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return DefaultProjectNumber, true
	}
	suffix := m[3]
	if suffix == "" {
		suffix = DefaultProjectSuffix
	}
	return fmt.Sprintf("%s%d%s", m[1], n+1, suffix), false
}

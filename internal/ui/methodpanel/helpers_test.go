package methodpanel

import (
	"strings"

	"github.com/llehouerou/ipv/internal/ui/testutil"
)

func splitLines(s string) []string {
	return strings.Split(testutil.StripANSI(s), "\n")
}

// trimmed drops the panel border and padding around a line.
func trimmed(line string) string {
	return strings.TrimSpace(strings.Trim(line, "│"))
}

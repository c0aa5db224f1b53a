package release

import (
	"fmt"
	"strings"

	"github.com/fbkclanna/craterepo/internal/semver"
)

// commitTemplate renders the release commit message template. notes is the
// released changelog body; haveNotes distinguishes an empty body from a
// missing changelog.
func commitTemplate(v semver.Version, notes string, haveNotes bool) string {
	var b strings.Builder
	b.WriteString("DELETE THIS LINE\n\n")
	if haveNotes {
		if !strings.HasSuffix(notes, "\n") {
			notes += "\n"
		}
		fmt.Fprintf(&b, "v%s — INSERT SHORT DESCRIPTION HERE\n\n%s", v, notes)
	} else {
		fmt.Fprintf(&b, "v%s — Initial release\n", v)
	}
	b.WriteString("\n# Write in Markdown.\n")
	b.WriteString("# The first line will be used as the release name.\n")
	b.WriteString("# The rest will be used as the release body.\n")
	return b.String()
}

package lineup

import "fmt"

// DeriveSetName builds a display name for a set from its artist names when
// the CSV row does not supply one.
func DeriveSetName(artists []string) string {
	switch len(artists) {
	case 0:
		return ""
	case 1:
		return artists[0]
	case 2:
		return fmt.Sprintf("%s & %s", artists[0], artists[1])
	default:
		return fmt.Sprintf("%s & %d others", artists[0], len(artists)-1)
	}
}

package op_service

// FormatVersion renders a version string of the form version-commit-date-meta,
// omitting empty parts and shortening the commit to 8 characters.
func FormatVersion(version string, gitCommit string, gitDate string, meta string) string {
	v := version
	if gitCommit != "" {
		if len(gitCommit) >= 8 {
			v += "-" + gitCommit[:8]
		} else {
			v += "-" + gitCommit
		}
	}
	if gitDate != "" {
		v += "-" + gitDate
	}
	if meta != "" {
		v += "-" + meta
	}
	return v
}

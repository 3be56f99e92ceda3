package importer

// ValidateHeaders checks that every required header is present. All missing
// headers are reported together, in the order they were declared.
func ValidateHeaders(actual []string, required []string) error {
	present := make(map[string]struct{}, len(actual))
	for _, h := range actual {
		present[h] = struct{}{}
	}

	var missing []string
	for _, h := range required {
		if _, ok := present[h]; !ok {
			missing = append(missing, h)
		}
	}

	if len(missing) > 0 {
		return &MissingHeadersError{Missing: missing}
	}
	return nil
}

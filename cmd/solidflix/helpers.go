package main

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

package snippet

import "strings"

// ValidateName checks that name can be used as a snippet identifier.
// Identifiers must be non-empty and must not contain a hyphen.
func ValidateName(name string) error {
	if name == "" {
		return newError(KindInvalidIdentifier, name, "Snippet identifier cannot be empty.")
	}
	if strings.Contains(name, "-") {
		return newError(KindInvalidIdentifier, name,
			"Using hyphens is not allowed. Please use %s instead.", strings.ReplaceAll(name, "-", "_"))
	}
	return nil
}

// ValidateDependencies checks the dependency list of the snippet named owner.
// A snippet cannot depend on itself, and every dependency must be a valid identifier.
func ValidateDependencies(owner string, deps []string) error {
	for _, dep := range deps {
		if dep == owner {
			return newError(KindSelfReference, owner,
				"Script name (%q) cannot appear in with_ argument.", owner)
		}
	}
	for _, dep := range deps {
		if err := ValidateName(dep); err != nil {
			return err
		}
	}
	return nil
}

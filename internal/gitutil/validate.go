package gitutil

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateRefName rejects names git would refuse as a tag or that would be
// read as a command-line option.
func ValidateRefName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("name cannot start with '-': %s", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("name cannot contain '..': %s", name)
	}
	if strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("name has an invalid ending: %s", name)
	}
	for _, ch := range []string{" ", "~", "^", ":", "?", "*", "[", "\\", "@{"} {
		if strings.Contains(name, ch) {
			return fmt.Errorf("name contains invalid character %q: %s", ch, name)
		}
	}
	return nil
}

// ValidateVersionName checks a release version that also becomes part of a
// file name, so path separators are not allowed.
func ValidateVersionName(version string) error {
	if err := ValidateRefName(version); err != nil {
		return err
	}
	if strings.ContainsAny(version, `/\`) {
		return fmt.Errorf("version cannot contain path separators: %s", version)
	}
	return nil
}

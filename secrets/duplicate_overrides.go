package secrets

import "fmt"

// Duplicate is an override that sets the value already in place, so it can be removed
type Duplicate struct {
	Key    string
	Source string
}

func (d Duplicate) String() string {
	return fmt.Sprintf("%s (%s);", d.Key, d.Source)
}

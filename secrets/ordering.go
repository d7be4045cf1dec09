package secrets

type Sorter struct {
	Sources Sources
}

func (ss Sorter) Sort() func(i, j int) bool {
	return func(i, j int) bool {
		return ss.Sources[i].Order() < ss.Sources[j].Order()
	}
}

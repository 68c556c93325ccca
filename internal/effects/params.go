package effects

// Params carries the numeric parameters of one layer. Missing entries fall
// back to the per-effect documented default.
type Params map[string]float64

// Get returns the named parameter or def when absent.
func (p Params) Get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// pkg/mrsh/result.go
package mrsh

// ComparisonResult is one scored pair. IndexA and IndexB are positions in the
// compared collections; for CompareOneVsCollection IndexA is always 0.
type ComparisonResult struct {
	LabelA string
	LabelB string
	IndexA int
	IndexB int
	Score  uint8
}

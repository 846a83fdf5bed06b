package plot

// ClassificationError reports a line whose structure matches no plot kind.
type ClassificationError struct {
	Source string
	Msg    string
}

func (e *ClassificationError) Error() string {
	return "plot: " + e.Msg
}

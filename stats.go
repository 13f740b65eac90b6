package comparator

// Statistics holds line counts for a diff.
type Statistics struct {
	ExpectedLines int // total lines in the expected text
	ActualLines   int // total lines in the actual text
	RemovedLines  int // lines only present in the expected text
	AddedLines    int // lines only present in the actual text
	CommonLines   int // lines common to both texts
}

// ComputeStatistics calculates statistics for an edit script.
func ComputeStatistics(edits []Edit) Statistics {
	var st Statistics
	for _, e := range edits {
		switch e.Op {
		case Equal:
			st.CommonLines++
			st.ExpectedLines++
			st.ActualLines++
		case Delete:
			st.RemovedLines++
			st.ExpectedLines++
		case Insert:
			st.AddedLines++
			st.ActualLines++
		}
	}
	return st
}

// HasChanges reports whether any line was added or removed.
func (st Statistics) HasChanges() bool {
	return st.RemovedLines > 0 || st.AddedLines > 0
}
